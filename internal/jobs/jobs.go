// Package jobs runs scheduled maintenance inside the server process.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/templui/golfjournal/internal/metrics"
)

const jobTimeout = time.Minute

// TokenCleaner removes used and expired sign-in tokens.
type TokenCleaner interface {
	CleanupTokens(ctx context.Context, olderThan time.Duration) (int64, error)
}

type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// AddTokenCleanup schedules cleanup with a standard cron spec or a
// descriptor such as "@every 6h".
func (s *Scheduler) AddTokenCleanup(spec string, cleaner TokenCleaner, retention time.Duration) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		_, _ = RunTokenCleanup(ctx, cleaner, retention)
	})
	if err != nil {
		return fmt.Errorf("invalid token cleanup schedule %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		slog.Warn("scheduler stop timed out")
	}
}

// RunTokenCleanup is one cleanup pass, shared by the scheduler and the CLI.
func RunTokenCleanup(ctx context.Context, cleaner TokenCleaner, retention time.Duration) (int64, error) {
	removed, err := cleaner.CleanupTokens(ctx, retention)
	metrics.JobRun("token_cleanup", err == nil)
	if err != nil {
		slog.Error("token cleanup failed", "error", err)
		return 0, err
	}

	slog.Info("token cleanup finished", "removed", removed, "retention", retention)
	return removed, nil
}
