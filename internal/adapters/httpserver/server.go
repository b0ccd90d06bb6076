package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phenrril/skinlab/internal/domain"
	"github.com/phenrril/skinlab/internal/usecase"
)

// LeadSubmitter runs a decoded form through the lead pipeline.
type LeadSubmitter interface {
	Submit(ctx context.Context, form usecase.LeadForm, remoteIP string) (*domain.Lead, error)
}

type Options struct {
	AllowedOrigins []string
	// RateLimit is the number of /api requests one client may make per
	// RateWindow. Zero disables limiting.
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	// TrustProxyHeaders takes the client address from CF-Connecting-IP and
	// the X-Forwarded-For family. Leave it off unless every request reaches
	// the server through Cloudflare or a proxy that overwrites them.
	TrustProxyHeaders bool
}

type Server struct {
	router  chi.Router
	leads   LeadSubmitter
	limiter *FixedWindowRateLimiter
	decoder *schema.Decoder
}

func New(leads LeadSubmitter, opts Options) *Server {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	s := &Server{router: chi.NewRouter(), leads: leads, decoder: dec}
	if opts.RateLimit > 0 {
		window := opts.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		s.limiter = NewFixedWindowLimiter(opts.RateLimit, window)
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	s.routes(opts)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

// Close stops the limiter's cleanup loop.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) routes(opts Options) {
	r := s.router
	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
		r.Use(CloudflareIP)
	}
	r.Use(Logging)
	r.Use(Recovery)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Timeout(opts.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(RateLimit(s.limiter))
		}
		r.Post("/contact", s.handleContact)
		r.Get("/contact", methodNotAllowed("Method not allowed. Use POST to submit contact form."))
		r.Post("/consultation", s.handleConsultation)
		r.Get("/consultation", methodNotAllowed("Method not allowed. Use POST to submit consultation form."))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
