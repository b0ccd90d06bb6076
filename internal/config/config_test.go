package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "APP_ENV", "RATE_LIMIT_PER_MINUTE", "DB_DSN", "GOOGLE_SHEETS_RANGE", "CORS_ALLOWED_ORIGINS", "TRUST_PROXY_HEADERS"} {
		t.Setenv(k, "")
	}
	c := Load()

	assert.Equal(t, "8080", c.Server.Port)
	assert.Equal(t, 20, c.Server.RateLimit)
	assert.Equal(t, 10*time.Second, c.Server.ClientTimeout)
	assert.True(t, c.IsDevelopment())
	assert.Equal(t, "Kapcsolat!A:N", c.Sheets.Range)
	assert.Equal(t, 100*time.Millisecond, c.Catalog.DownloadDelay)
	assert.Contains(t, c.Database.DSN, "sslmode=disable")
	assert.Len(t, c.Server.AllowedOrigins, 2)
	assert.False(t, c.Server.TrustProxyHeaders)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("DOWNLOAD_DELAY", "1s")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY", `-----BEGIN\nKEY`)
	t.Setenv("DB_DSN", "postgres://x")
	t.Setenv("LOG_NO_COLOR", "true")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	c := Load()
	assert.True(t, c.IsProduction())
	assert.Equal(t, 5, c.Server.RateLimit)
	assert.Equal(t, time.Second, c.Catalog.DownloadDelay)
	assert.Equal(t, 587, c.Mail.SMTPPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.Server.AllowedOrigins)
	assert.Equal(t, "-----BEGIN\nKEY", c.Sheets.PrivateKey)
	assert.Equal(t, "postgres://x", c.Database.DSN)
	assert.True(t, c.Log.NoColor)
	assert.True(t, c.Server.TrustProxyHeaders)
}

func TestSetupLoggerJSON(t *testing.T) {
	prev, prevLevel := zlog.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		zlog.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	SetupLoggerTo(&buf, LogConfig{Level: "warn", Format: "json"})
	zlog.Info().Msg("hidden")
	zlog.Warn().Str("sku", "NQ001").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"sku":"NQ001"`)
}
