package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Turnstile TurnstileConfig
	Sheets    SheetsConfig
	Mail      MailConfig
	Catalog   CatalogConfig
	Database  DatabaseConfig
}

type ServerConfig struct {
	Port              string
	Env               string
	AllowedOrigins    []string
	RateLimit         int
	ClientTimeout     time.Duration
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
	TrustProxyHeaders bool
}

type LogConfig struct {
	Level   string
	Format  string
	NoColor bool
}

type TurnstileConfig struct {
	SecretKey        string
	ExpectedHostname string
}

type SheetsConfig struct {
	ServiceAccountEmail string
	PrivateKey          string
	SpreadsheetID       string
	Range               string
}

type MailConfig struct {
	Transport        string
	ResendAPIKey     string
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	NotifyEmail      string
	FromConfirmation string
	FromNotification string
}

type CatalogConfig struct {
	XLSXPath      string
	ProductsDir   string
	ImagesDir     string
	RedirectsPath string
	ConfigPath    string
	CDNBase       string
	DownloadDelay time.Duration
	SiteURL       string
}

type DatabaseConfig struct {
	DSN string
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:              getEnv("PORT", "8080"),
			Env:               strings.ToLower(getEnv("APP_ENV", "development")),
			AllowedOrigins:    getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"https://skinlabhungary.hu", "https://skinlabeurope.com"}),
			RateLimit:         getEnvInt("RATE_LIMIT_PER_MINUTE", 20),
			ClientTimeout:     getEnvDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
			ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
			ReadHeaderTimeout: getEnvDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
		},
		Log: LogConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  getEnv("LOG_FORMAT", "console"),
			NoColor: getEnvBool("LOG_NO_COLOR", false),
		},
		Turnstile: TurnstileConfig{
			SecretKey:        getEnv("TURNSTILE_SECRET_KEY", ""),
			ExpectedHostname: getEnv("TURNSTILE_EXPECTED_HOSTNAME", ""),
		},
		Sheets: SheetsConfig{
			ServiceAccountEmail: getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
			PrivateKey:          strings.ReplaceAll(getEnv("GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY", ""), `\n`, "\n"),
			SpreadsheetID:       getEnv("GOOGLE_SHEETS_SPREADSHEET_ID", ""),
			Range:               getEnv("GOOGLE_SHEETS_RANGE", "Kapcsolat!A:N"),
		},
		Mail: MailConfig{
			Transport:        strings.ToLower(getEnv("MAIL_TRANSPORT", "resend")),
			ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
			SMTPHost:         getEnv("SMTP_HOST", ""),
			SMTPPort:         getEnvInt("SMTP_PORT", 587),
			SMTPUsername:     getEnv("SMTP_USERNAME", ""),
			SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
			NotifyEmail:      getEnv("NOTIFY_EMAIL", "info@skinlabhungary.hu"),
			FromConfirmation: getEnv("MAIL_FROM_CONFIRMATION", "SkinLab Hungary <noreply@skinlabhungary.hu>"),
			FromNotification: getEnv("MAIL_FROM_NOTIFICATION", "SkinLab Forms <forms@skinlabhungary.hu>"),
		},
		Catalog: CatalogConfig{
			XLSXPath:      getEnv("CATALOG_XLSX", "products.xlsx"),
			ProductsDir:   getEnv("PRODUCTS_DIR", "src/content/products"),
			ImagesDir:     getEnv("IMAGES_DIR", "public/images/products"),
			RedirectsPath: getEnv("REDIRECTS_PATH", "public/_redirects"),
			ConfigPath:    getEnv("CATALOG_CONFIG", ""),
			CDNBase:       getEnv("CDN_BASE", "https://skinlab.cdn.shoprenter.hu/custom/skinlab/image/cache/w800h800q100"),
			DownloadDelay: getEnvDuration("DOWNLOAD_DELAY", 100*time.Millisecond),
			SiteURL:       getEnv("SITE_URL", "https://skinlabhungary.hu"),
		},
		Database: DatabaseConfig{
			DSN: postgresDSN(),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

func (c *Config) IsDevelopment() bool { return !c.IsProduction() }

// postgresDSN prefers DB_DSN and otherwise assembles one from the DB_* and
// POSTGRES_* variables.
func postgresDSN() string {
	if dsn := strings.TrimSpace(os.Getenv("DB_DSN")); dsn != "" {
		return dsn
	}
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", getEnv("POSTGRES_USER", "postgres"))
	pass := getEnv("DB_PASSWORD", getEnv("POSTGRES_PASSWORD", "postgres"))
	name := getEnv("DB_NAME", getEnv("POSTGRES_DB", "skinlab"))
	ssl := getEnv("DB_SSLMODE", "disable")
	return "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=" + ssl
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
