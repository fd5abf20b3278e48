package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/golfjournal/internal/feed"
	"github.com/templui/golfjournal/internal/metrics"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/repository"
	"github.com/templui/golfjournal/internal/validation"
)

// RoundService is the round store: an append-only history per user with a
// live feed of whole-history snapshots.
type RoundService struct {
	repo   repository.RoundRepository
	broker *feed.Broker[[]*model.Round]
	now    func() time.Time
}

func NewRoundService(repo repository.RoundRepository, broker *feed.Broker[[]*model.Round]) *RoundService {
	return &RoundService{
		repo:   repo,
		broker: broker,
		now:    time.Now,
	}
}

// Append validates and saves a round, then pushes a fresh snapshot to the
// user's subscribers before returning.
func (s *RoundService) Append(ctx context.Context, userID string, draft model.RoundDraft) (*model.Round, error) {
	now := s.now().UTC()

	date, err := validation.ParseDate(draft.Date, now)
	if err != nil {
		return nil, err
	}
	draft.Date = date

	draft.Course, err = validation.NormalizeCourse(draft.Course)
	if err != nil {
		return nil, err
	}

	round, err := model.NewRound(uuid.New().String(), userID, draft, now)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(ctx, round)
	if err != nil {
		return nil, fmt.Errorf("failed to save round: %w", err)
	}
	metrics.RoundAppended()

	err = s.broker.Refresh(userID, s.loader(ctx, userID))
	if err != nil {
		// the round is saved; subscribers catch up on the next change
		slog.Error("failed to publish rounds snapshot", "error", err, "user_id", userID)
	}

	slog.Debug("round saved", "user_id", userID, "round_id", round.ID, "total", round.TotalScore)
	return round, nil
}

// Rounds returns the history newest first.
func (s *RoundService) Rounds(ctx context.Context, userID string) ([]*model.Round, error) {
	rounds, err := s.repo.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}
	return rounds, nil
}

// Subscribe delivers the current history to fn at once, then again after
// every change. The caller must Close the subscription.
func (s *RoundService) Subscribe(ctx context.Context, userID string, fn func([]*model.Round)) (*feed.Subscription, error) {
	return s.broker.SubscribeWith(userID, fn, s.loader(ctx, userID))
}

func (s *RoundService) loader(ctx context.Context, userID string) func() ([]*model.Round, error) {
	return func() ([]*model.Round, error) {
		return s.Rounds(ctx, userID)
	}
}
