package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// SetupLogger configures the global zerolog logger.
func SetupLogger(c LogConfig) {
	SetupLoggerTo(os.Stdout, c)
}

func SetupLoggerTo(w io.Writer, c LogConfig) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || c.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.EqualFold(c.Format, "json") {
		zlog.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: c.NoColor})
}
