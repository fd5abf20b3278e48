package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:8090")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "average", cfg.ProgressScoreSource)
	assert.Equal(t, 110, cfg.ProgressStartLevel)
	assert.Equal(t, 85, cfg.GoalDefaultTarget)
	assert.Equal(t, 15*time.Minute, cfg.TokenSignInExpiry)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:8090")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PROGRESS_SCORE_SOURCE", "best")
	t.Setenv("PROGRESS_START_LEVEL", "120")
	t.Setenv("GOAL_DEFAULT_TARGET", "not-a-number")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("S3_BUCKET", "journal-exports")

	cfg := Load()

	assert.Equal(t, "best", cfg.ProgressScoreSource)
	assert.Equal(t, 120, cfg.ProgressStartLevel)
	assert.Equal(t, 85, cfg.GoalDefaultTarget)
	assert.False(t, cfg.MetricsEnabled)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestSanitized_DropsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:            "Golf Journal",
		JWTSecret:          "secret",
		GoogleClientSecret: "google-secret",
		ResendAPIKey:       "re_123",
		S3SecretKey:        "s3-secret",
		S3Bucket:           "bucket",
	}

	safe := cfg.Sanitized()

	assert.Equal(t, "Golf Journal", safe.AppName)
	assert.Empty(t, safe.JWTSecret)
	assert.Empty(t, safe.GoogleClientSecret)
	assert.Empty(t, safe.ResendAPIKey)
	assert.Empty(t, safe.S3SecretKey)
	assert.True(t, safe.ArchiveEnabled())
}
