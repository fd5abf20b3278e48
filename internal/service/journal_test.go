package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/progress"
)

func TestJournalService_DashboardScenario(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	ctx := context.Background()
	env.journal.now = func() time.Time { return time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC) }

	for _, r := range []struct {
		date  string
		total int
	}{
		{"2024-01-01", 95},
		{"2024-02-01", 88},
		{"2024-03-01", 91},
	} {
		_, err := env.rounds.Append(ctx, user.ID, model.RoundDraft{Date: r.date, Scores: cardWithTotal(r.total)})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	view, err := env.journal.Dashboard(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, view.Summary.RoundCount)
	assert.Equal(t, 91.3, view.Summary.Average)
	require.NotNil(t, view.Summary.Best)
	assert.Equal(t, 88, *view.Summary.Best)
	assert.Equal(t, []int{95, 88, 91}, view.Summary.Trend)
	assert.Equal(t, 1, view.Summary.MonthlyCount)

	assert.Equal(t, 85, view.Goal.TargetScore)
	assert.True(t, view.Progress.HasData)
	assert.Equal(t, progress.SourceAverage, view.Progress.Source)
	assert.InDelta(t, progress.Percent(91.3, 85, 110), view.Progress.Percent, 0.0001)
}

func TestJournalService_EmptyDashboard(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)

	view, err := env.journal.Dashboard(context.Background(), user.ID)
	require.NoError(t, err)

	assert.False(t, view.Summary.HasData())
	assert.Nil(t, view.Summary.Best)
	assert.Equal(t, []int{}, view.Summary.Trend)
	assert.False(t, view.Progress.HasData)
	assert.Zero(t, view.Progress.Percent)
	assert.Empty(t, view.Progress.Tip)
}

func TestJournalService_WatchRecomputesOnEverySnapshot(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	ctx := context.Background()

	var mu sync.Mutex
	var views []View
	watch, err := env.journal.Watch(ctx, user.ID, func(v View) {
		mu.Lock()
		views = append(views, v)
		mu.Unlock()
	})
	require.NoError(t, err)

	env.appendRound(t, user.ID, "2024-01-01", 5)
	_, err = env.goals.SetTarget(ctx, user.ID, "80")
	require.NoError(t, err)

	mu.Lock()
	require.Len(t, views, 3)
	assert.Equal(t, 0, views[0].Summary.RoundCount)
	assert.Equal(t, 1, views[1].Summary.RoundCount)
	assert.Equal(t, 90, *views[1].Summary.Best)
	assert.Equal(t, 80, views[2].Goal.TargetScore)
	assert.Equal(t, 80, views[2].Progress.Target)
	mu.Unlock()

	watch.Close()
	assert.Equal(t, 0, env.roundsFd.Subscribers(user.ID))
	assert.Equal(t, 0, env.goalsFd.Subscribers(user.ID))

	env.appendRound(t, user.ID, "2024-01-02", 5)
	mu.Lock()
	assert.Len(t, views, 3)
	mu.Unlock()
}
