package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/repository"
	"github.com/templui/golfjournal/internal/validation"
)

const (
	MaxPracticeGoals = 8

	defaultPracticeIcon = "⛳"
)

var (
	ErrPracticeGoalLimit = fmt.Errorf("a checklist holds at most %d practice goals", MaxPracticeGoals)
	ErrLastPracticeGoal  = errors.New("keep at least one practice goal on the checklist")
)

// PracticeService keeps each user's weekly practice checklist. A user's
// first look at the checklist seeds it with the default drills; after that
// it is never empty.
type PracticeService struct {
	goals   repository.PracticeGoalRepository
	entries repository.PracticeEntryRepository
	now     func() time.Time
	locks   userLocks
}

func NewPracticeService(goals repository.PracticeGoalRepository, entries repository.PracticeEntryRepository) *PracticeService {
	return &PracticeService{
		goals:   goals,
		entries: entries,
		now:     time.Now,
	}
}

// Checklist returns the user's goals with this week's check marks.
func (s *PracticeService) Checklist(ctx context.Context, userID string) (model.PracticeChecklist, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	goals, err := s.seeded(ctx, userID)
	if err != nil {
		return model.PracticeChecklist{}, err
	}

	week := model.PracticeWeek(s.now().UTC())
	done, err := s.entries.CompletedForWeek(ctx, userID, week)
	if err != nil {
		return model.PracticeChecklist{}, fmt.Errorf("failed to load practice entries: %w", err)
	}

	checklist := model.PracticeChecklist{Week: week, Items: make([]model.PracticeItem, 0, len(goals))}
	for _, goal := range goals {
		checklist.Items = append(checklist.Items, model.PracticeItem{Goal: goal, Checked: done[goal.ID]})
	}
	return checklist, nil
}

// Toggle flips the goal's check mark for the current week.
func (s *PracticeService) Toggle(ctx context.Context, userID, goalID string) (model.PracticeItem, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	// Verify ownership
	goal, err := s.goals.ByID(ctx, userID, goalID)
	if err != nil {
		return model.PracticeItem{}, err
	}

	now := s.now().UTC()
	week := model.PracticeWeek(now)
	entry, err := s.entries.Entry(ctx, goalID, week)
	if err != nil {
		return model.PracticeItem{}, fmt.Errorf("failed to load practice entry: %w", err)
	}

	checked := entry == nil || !entry.Completed
	err = s.entries.SetCompleted(ctx, goalID, week, checked, now)
	if err != nil {
		return model.PracticeItem{}, fmt.Errorf("failed to save practice entry: %w", err)
	}

	return model.PracticeItem{Goal: goal, Checked: checked}, nil
}

// Add appends a goal to the end of the checklist.
func (s *PracticeService) Add(ctx context.Context, userID, title, description string) (*model.PracticeGoal, error) {
	title, description, err := validation.NormalizePracticeGoal(title, description)
	if err != nil {
		return nil, err
	}

	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	goals, err := s.seeded(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Check goal limit
	if len(goals) >= MaxPracticeGoals {
		return nil, ErrPracticeGoalLimit
	}

	position := 0
	if len(goals) > 0 {
		position = goals[len(goals)-1].Position + 1
	}
	return s.create(ctx, userID, model.PracticeGoal{
		Title:       title,
		Description: description,
		Icon:        defaultPracticeIcon,
		Position:    position,
	})
}

func (s *PracticeService) Delete(ctx context.Context, userID, goalID string) error {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	// Verify ownership
	_, err := s.goals.ByID(ctx, userID, goalID)
	if err != nil {
		return err
	}

	count, err := s.goals.CountUserGoals(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count practice goals: %w", err)
	}
	if count <= 1 {
		return ErrLastPracticeGoal
	}

	return s.goals.Delete(ctx, userID, goalID)
}

// seeded loads the user's goals, creating the defaults on first use. The
// caller holds the user's lock.
func (s *PracticeService) seeded(ctx context.Context, userID string) ([]*model.PracticeGoal, error) {
	goals, err := s.goals.Goals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load practice goals: %w", err)
	}
	if len(goals) > 0 {
		return goals, nil
	}

	for i, def := range model.DefaultPracticeGoals {
		def.Position = i
		goal, err := s.create(ctx, userID, def)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	slog.Info("practice checklist seeded", "user_id", userID, "goals", len(goals))
	return goals, nil
}

func (s *PracticeService) create(ctx context.Context, userID string, goal model.PracticeGoal) (*model.PracticeGoal, error) {
	now := s.now().UTC()
	goal.ID = uuid.New().String()
	goal.UserID = userID
	goal.CreatedAt = now
	goal.UpdatedAt = now

	err := s.goals.Create(ctx, &goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create practice goal: %w", err)
	}
	return &goal, nil
}
