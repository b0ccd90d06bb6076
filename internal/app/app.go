package app

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/phenrril/skinlab/internal/adapters/httpserver"
	"github.com/phenrril/skinlab/internal/adapters/mail"
	"github.com/phenrril/skinlab/internal/adapters/sheets"
	"github.com/phenrril/skinlab/internal/adapters/turnstile"
	"github.com/phenrril/skinlab/internal/config"
	"github.com/phenrril/skinlab/internal/i18n"
	"github.com/phenrril/skinlab/internal/usecase"
)

// App is the lead-capture API.
type App struct {
	Config     *config.Config
	Translator *i18n.Translator
	LeadUC     *usecase.LeadUC
	Server     *httpserver.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	tr, err := i18n.NewTranslator()
	if err != nil {
		return nil, err
	}

	captcha := turnstile.NewVerifier(cfg.Turnstile.SecretKey, cfg.Turnstile.ExpectedHostname, cfg.IsDevelopment(),
		turnstile.WithClient(&http.Client{Timeout: 8 * time.Second}))

	var tokens oauth2.TokenSource
	if cfg.Sheets.ServiceAccountEmail != "" && cfg.Sheets.PrivateKey != "" {
		tokens = sheets.ServiceAccountSource(cfg.Sheets.ServiceAccountEmail, cfg.Sheets.PrivateKey)
	}
	store := sheets.NewClient(cfg.Sheets.SpreadsheetID, cfg.Sheets.Range, tokens,
		sheets.WithHTTPClient(&http.Client{Timeout: cfg.Server.ClientTimeout}))
	if !store.Configured() {
		log.Warn().Msg("google sheets not configured, leads will not be stored")
	}

	mailer := mail.NewLeadMailer(newSender(cfg.Mail, cfg.Server.ClientTimeout), tr, mail.Addresses{
		Confirmation: cfg.Mail.FromConfirmation,
		Notification: cfg.Mail.FromNotification,
		NotifyTo:     cfg.Mail.NotifyEmail,
	})

	leads := &usecase.LeadUC{Captcha: captcha, Store: store, Notifier: mailer}
	srv := httpserver.New(leads, httpserver.Options{
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        time.Minute,
		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
	})

	return &App{Config: cfg, Translator: tr, LeadUC: leads, Server: srv}, nil
}

func newSender(c config.MailConfig, timeout time.Duration) mail.Sender {
	switch c.Transport {
	case "smtp":
		return mail.NewSMTPSender(c.SMTPHost, c.SMTPPort, c.SMTPUsername, c.SMTPPassword)
	default:
		s := mail.NewResendSender(c.ResendAPIKey)
		s.Client = &http.Client{Timeout: timeout}
		if c.ResendAPIKey == "" {
			log.Warn().Msg("RESEND_API_KEY not set, emails will not be sent")
		}
		return s
	}
}

func (a *App) HTTPHandler() http.Handler { return a.Server }

func (a *App) Close() { a.Server.Close() }
