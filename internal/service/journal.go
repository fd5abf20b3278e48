package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/templui/golfjournal/internal/feed"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/progress"
	"github.com/templui/golfjournal/internal/stats"
)

// View is everything the statistics dashboard and goal tracker render.
type View struct {
	Summary  stats.Summary     `json:"summary"`
	Progress progress.Result   `json:"progress"`
	Goal     model.GoalSetting `json:"goal"`
}

// JournalService recomputes the dashboard from round and goal snapshots.
type JournalService struct {
	rounds *RoundService
	goals  *GoalService
	policy progress.Policy
	now    func() time.Time
}

func NewJournalService(rounds *RoundService, goals *GoalService, policy progress.Policy) *JournalService {
	return &JournalService{
		rounds: rounds,
		goals:  goals,
		policy: policy,
		now:    time.Now,
	}
}

func (s *JournalService) Policy() progress.Policy {
	return s.policy
}

// Compose builds the view for one pair of snapshots.
func (s *JournalService) Compose(rounds []*model.Round, goal model.GoalSetting) View {
	summary := stats.Compute(rounds, s.now())
	return View{
		Summary:  summary,
		Progress: s.policy.Evaluate(summary, goal.TargetScore),
		Goal:     goal,
	}
}

// Empty is the view for a user whose data could not be read.
func (s *JournalService) Empty(userID string) View {
	return s.Compose(nil, model.GoalSetting{UserID: userID, TargetScore: s.goals.DefaultTarget()})
}

func (s *JournalService) Dashboard(ctx context.Context, userID string) (View, error) {
	rounds, err := s.rounds.Rounds(ctx, userID)
	if err != nil {
		return View{}, err
	}

	goal, err := s.goals.Setting(ctx, userID)
	if err != nil {
		return View{}, err
	}

	return s.Compose(rounds, goal), nil
}

// Watch calls fn with a recomputed view whenever the user's rounds or goal
// change, starting with the current state. fn runs on the publishing
// goroutine and must not block.
func (s *JournalService) Watch(ctx context.Context, userID string, fn func(View)) (*Watch, error) {
	w := &Watch{compose: s.Compose, fn: fn}

	goalSub, err := s.goals.Subscribe(ctx, userID, w.setGoal)
	if err != nil {
		return nil, fmt.Errorf("failed to watch goal: %w", err)
	}

	roundsSub, err := s.rounds.Subscribe(ctx, userID, w.setRounds)
	if err != nil {
		goalSub.Close()
		return nil, fmt.Errorf("failed to watch rounds: %w", err)
	}

	w.subs = []*feed.Subscription{goalSub, roundsSub}
	return w, nil
}

// Watch is a live dashboard subscription. Close must be called when the
// consumer goes away.
type Watch struct {
	compose func([]*model.Round, model.GoalSetting) View
	fn      func(View)
	subs    []*feed.Subscription

	mu       sync.Mutex
	rounds   []*model.Round
	goal     model.GoalSetting
	haveGoal bool
	ready    bool
}

func (w *Watch) setGoal(goal model.GoalSetting) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.goal = goal
	w.haveGoal = true
	w.emitLocked()
}

func (w *Watch) setRounds(rounds []*model.Round) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.rounds = rounds
	w.ready = true
	w.emitLocked()
}

// emitLocked waits until both feeds have delivered once.
func (w *Watch) emitLocked() {
	if !w.ready || !w.haveGoal {
		return
	}
	w.fn(w.compose(w.rounds, w.goal))
}

func (w *Watch) Close() {
	for _, sub := range w.subs {
		sub.Close()
	}
}
