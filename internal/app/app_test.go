package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/config"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/progress"
)

func testConfig() *config.Config {
	return &config.Config{
		AppName:              "Golf Journal",
		AppEnv:               "development",
		AppURL:               "http://localhost:8090",
		DBDriver:             "sqlite",
		DBConnection:         ":memory:",
		JWTSecret:            "secret",
		TokenCleanupSchedule: "@every 6h",
		ProgressScoreSource:  "best",
		ProgressStartLevel:   120,
		GoalDefaultTarget:    90,
	}
}

func TestNew(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	assert.Equal(t, progress.Policy{Source: progress.SourceBest, StartLevel: 120}, a.JournalService.Policy())
	assert.False(t, a.ExportService.ArchiveEnabled())

	user, err := a.AuthService.SignInAnonymous(context.Background())
	require.NoError(t, err)

	view, err := a.JournalService.Dashboard(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, view.Goal.TargetScore)
	assert.False(t, view.Progress.HasData)

	checklist, err := a.PracticeService.Checklist(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, checklist.Items, len(model.DefaultPracticeGoals))
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ProgressScoreSource = "median"
	_, err := New(context.Background(), cfg)
	require.Error(t, err)

	cfg = testConfig()
	cfg.TokenCleanupSchedule = "whenever"
	_, err = New(context.Background(), cfg)
	require.ErrorContains(t, err, "invalid token cleanup schedule")
}
