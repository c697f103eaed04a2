package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultJWTSecret     = "a-very-secret-key-should-be-longer-and-random"
	defaultRefreshSecret = "default_insecure_refresh_secret_please_change_this_!@#$"
)

// Config holds application configuration.
type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	RequestTimeout time.Duration

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// Refresh Token Config
	RefreshTokenExpiryDuration time.Duration
	RefreshTokenSecret         string

	// External OAuth Providers
	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURL    string
	FrontendBaseURL      string
	OAuthStateCookieName string

	// Outbound mail
	AppName      string
	MailFrom     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	RedisURL           string
	LoginRateLimit     string
	CORSAllowedOrigins []string
	PosthogAPIKey      string
	PosthogEndpoint    string

	DirectRegistrationEnabled bool
	AdminEmail                string
	AdminPassword             string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DB_DRIVER", DriverPostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SQLITE_PATH", "ecommerce.db")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "15m")
	viper.SetDefault("JWT_ISSUER", "ecommerce-backend")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("JWT_REFRESH_SECRET", defaultRefreshSecret)
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("OAUTH_STATE_COOKIE_NAME", "oauthstate")
	viper.SetDefault("APP_NAME", "E-Commerce")
	viper.SetDefault("MAIL_FROM", "no-reply@localhost")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "")
	viper.SetDefault("AUTH_DIRECT_REGISTRATION", false)
	viper.SetDefault("ADMIN_EMAIL", "admin@example.com")
	viper.SetDefault("ADMIN_PASSWORD", "")

	// Environment variables override defaults and values loaded from .env.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseDriver = strings.ToLower(viper.GetString("DB_DRIVER"))
	switch cfg.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		log.Printf("Warning: Unknown DB_DRIVER ('%s'). Defaulting to %s.\n", cfg.DatabaseDriver, DriverPostgres)
		cfg.DatabaseDriver = DriverPostgres
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" && cfg.DatabaseDriver == DriverPostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.SQLitePath = viper.GetString("SQLITE_PATH")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RequestTimeout = durationOrDefault("REQUEST_TIMEOUT", 10*time.Second)

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", 15*time.Minute)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RefreshTokenSecret = viper.GetString("JWT_REFRESH_SECRET")
	if cfg.RefreshTokenSecret == "" {
		log.Println("Warning: JWT_REFRESH_SECRET is not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
		cfg.RefreshTokenSecret = defaultRefreshSecret
	}
	cfg.RefreshTokenExpiryDuration = durationOrDefault("REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	cfg.OAuthStateCookieName = viper.GetString("OAUTH_STATE_COOKIE_NAME")

	// Log warnings for missing critical OAuth ENV variables
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}
	if cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_SECRET not set. Google OAuth will not function.")
	}
	if cfg.GoogleRedirectURL == "" {
		log.Println("Warning: GOOGLE_REDIRECT_URL not set. Google OAuth will not function.")
	}

	cfg.AppName = viper.GetString("APP_NAME")
	cfg.MailFrom = viper.GetString("MAIL_FROM")
	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set. Emails will be written to the log instead of sent.")
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	if len(cfg.CORSAllowedOrigins) == 0 && cfg.FrontendBaseURL != "" {
		cfg.CORSAllowedOrigins = []string{cfg.FrontendBaseURL}
	}
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	cfg.DirectRegistrationEnabled = viper.GetBool("AUTH_DIRECT_REGISTRATION")
	cfg.AdminEmail = viper.GetString("ADMIN_EMAIL")
	cfg.AdminPassword = viper.GetString("ADMIN_PASSWORD")

	if cfg.IsProduction {
		if cfg.JWTSecret == defaultJWTSecret || cfg.RefreshTokenSecret == defaultRefreshSecret {
			return nil, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must be set in production")
		}
	}
	if cfg.JWTSecret == cfg.RefreshTokenSecret {
		log.Println("Warning: JWT_SECRET and JWT_REFRESH_SECRET are identical. Token kinds are still checked by claim.")
	}

	return cfg, nil
}

// durationOrDefault parses a duration setting (e.g. "15m", "168h"), warning and falling back on bad input.
func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
