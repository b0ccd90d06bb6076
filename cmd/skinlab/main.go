package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/app"
	"github.com/phenrril/skinlab/internal/config"
)

func main() {
	cfg := config.Load()
	config.SetupLogger(cfg.Log)

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create app")
	}
	defer application.Close()

	port := cfg.Server.Port
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil && !cfg.IsProduction() {
		log.Warn().Err(err).Str("port", port).Msg("port busy, trying fallbacks")
		for p := 8081; p <= 8090; p++ {
			l2, err2 := net.Listen("tcp", net.JoinHostPort("", fmt.Sprint(p)))
			if err2 == nil {
				ln, err = l2, nil
				port = fmt.Sprint(p)
				break
			}
		}
	}
	if err != nil {
		log.Fatal().Err(err).Str("port", port).Msg("listen")
	}

	server := &http.Server{
		Handler:           application.HTTPHandler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	go func() {
		log.Info().Str("port", port).Str("env", cfg.Server.Env).Msg("server listening")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
