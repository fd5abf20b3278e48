package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/golfjournal/internal/feed"
	"github.com/templui/golfjournal/internal/metrics"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/repository"
	"github.com/templui/golfjournal/internal/validation"
)

// GoalService holds the per-user goal setting and edits it.
type GoalService struct {
	repo          repository.GoalSettingRepository
	broker        *feed.Broker[model.GoalSetting]
	defaultTarget int
	now           func() time.Time
	locks         userLocks
}

func NewGoalService(repo repository.GoalSettingRepository, broker *feed.Broker[model.GoalSetting], defaultTarget int) *GoalService {
	if validation.ValidateTargetScore(defaultTarget) != nil {
		slog.Warn("default target score out of range, using fallback", "value", defaultTarget, "fallback", model.DefaultTargetScore)
		defaultTarget = model.DefaultTargetScore
	}

	return &GoalService{
		repo:          repo,
		broker:        broker,
		defaultTarget: defaultTarget,
		now:           time.Now,
	}
}

func (s *GoalService) DefaultTarget() int {
	return s.defaultTarget
}

// Setting reads the user's setting with defaults applied.
func (s *GoalService) Setting(ctx context.Context, userID string) (model.GoalSetting, error) {
	row, err := s.repo.ByUserID(ctx, userID)
	if err != nil {
		return model.GoalSetting{}, fmt.Errorf("failed to load goal setting: %w", err)
	}

	setting := row.Resolve(userID, s.defaultTarget)
	if validation.ValidateTargetScore(setting.TargetScore) != nil {
		slog.Warn("stored target score out of range, using default", "user_id", userID, "value", setting.TargetScore)
		setting.TargetScore = s.defaultTarget
	}
	return setting, nil
}

// MergeWrite updates only the fields set in patch, plus updatedAt. Writes for
// one user never interleave.
func (s *GoalService) MergeWrite(ctx context.Context, userID string, patch model.GoalSettingPatch) error {
	if patch.TargetScore != nil {
		err := validation.ValidateTargetScore(*patch.TargetScore)
		if err != nil {
			metrics.GoalWrite("invalid")
			return err
		}
	}

	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	err := s.repo.MergeWrite(ctx, userID, patch, s.now().UTC())
	if err != nil {
		metrics.GoalWrite("error")
		return fmt.Errorf("failed to save goal setting: %w", err)
	}
	metrics.GoalWrite("ok")

	err = s.broker.Refresh(userID, s.loader(ctx, userID))
	if err != nil {
		slog.Error("failed to publish goal snapshot", "error", err, "user_id", userID)
	}
	return nil
}

// SetTarget parses raw user input. Invalid input is rejected without a
// write and the stored target stays as it was.
func (s *GoalService) SetTarget(ctx context.Context, userID, raw string) (model.GoalSetting, error) {
	target, err := validation.ParseTargetScore(raw)
	if err != nil {
		metrics.GoalWrite("invalid")
		return model.GoalSetting{}, err
	}

	err = s.MergeWrite(ctx, userID, model.GoalSettingPatch{TargetScore: &target})
	if err != nil {
		return model.GoalSetting{}, err
	}

	return s.Setting(ctx, userID)
}

// Subscribe delivers the current setting at once, then after every write.
func (s *GoalService) Subscribe(ctx context.Context, userID string, fn func(model.GoalSetting)) (*feed.Subscription, error) {
	return s.broker.SubscribeWith(userID, fn, s.loader(ctx, userID))
}

func (s *GoalService) loader(ctx context.Context, userID string) func() (model.GoalSetting, error) {
	return func() (model.GoalSetting, error) {
		return s.Setting(ctx, userID)
	}
}
