package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	SupportEmail string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret            string
	JWTExpiry            time.Duration
	TokenSignInExpiry    time.Duration
	TokenRetention       time.Duration
	TokenCleanupSchedule string

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Journal
	ProgressScoreSource string // "average" or "best"
	ProgressStartLevel  int
	GoalDefaultTarget   int

	// Observability (optional)
	SentryDSN      string
	MetricsEnabled bool

	// Export archive (S3-compatible, optional: disabled when S3_BUCKET is empty)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "Golf Journal"),
		AppEnv:       envRequired("APP_ENV"), // 'development' or 'production'
		AppURL:       envRequired("APP_URL"), // base URL for sign-in links and OAuth redirects
		Port:         envString("PORT", "8090"),
		SupportEmail: envString("SUPPORT_EMAIL", "hello@example.com"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/journal.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret:            envRequired("JWT_SECRET"),
		JWTExpiry:            envDuration("JWT_EXPIRY", 720*time.Hour),           // 30 days
		TokenSignInExpiry:    envDuration("TOKEN_SIGNIN_EXPIRY", 15*time.Minute), // 15 minutes
		TokenRetention:       envDuration("TOKEN_RETENTION", 30*24*time.Hour),    // 30 days
		TokenCleanupSchedule: envString("TOKEN_CLEANUP_SCHEDULE", "@every 6h"),

		// OAuth
		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),
		GitHubClientID:     envString("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: envString("GITHUB_CLIENT_SECRET", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Journal
		ProgressScoreSource: envString("PROGRESS_SCORE_SOURCE", "average"),
		ProgressStartLevel:  envInt("PROGRESS_START_LEVEL", 110),
		GoalDefaultTarget:   envInt("GOAL_DEFAULT_TARGET", 85),

		// Observability
		SentryDSN:      envString("SENTRY_DSN", ""),
		MetricsEnabled: envBool("METRICS_ENABLED", true),

		// Export archive
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""), // for MinIO, R2, DO Spaces
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows email to fall back to log mode.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ArchiveEnabled reports whether exports can be archived to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		SupportEmail: c.SupportEmail,

		GoogleClientID: c.GoogleClientID,
		GitHubClientID: c.GitHubClientID,

		GoalDefaultTarget: c.GoalDefaultTarget,
		S3Bucket:          c.S3Bucket, // the UI hides the archive button without it
	}
}
