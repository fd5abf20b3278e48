package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/golfjournal/internal/model"
)

type PracticeEntryRepository interface {
	// Entry returns nil without error when the week has no entry yet.
	Entry(ctx context.Context, goalID, week string) (*model.PracticeEntry, error)
	Entries(ctx context.Context, goalID string) ([]*model.PracticeEntry, error)
	// CompletedForWeek returns the IDs of userID's goals done in week.
	CompletedForWeek(ctx context.Context, userID, week string) (map[string]bool, error)
	SetCompleted(ctx context.Context, goalID, week string, completed bool, at time.Time) error
}

type practiceEntryRepository struct {
	db *sqlx.DB
}

func NewPracticeEntryRepository(db *sqlx.DB) PracticeEntryRepository {
	return &practiceEntryRepository{db: db}
}

func (r *practiceEntryRepository) Entry(ctx context.Context, goalID, week string) (*model.PracticeEntry, error) {
	entry := &model.PracticeEntry{}
	query := `SELECT id, goal_id, week, completed, completed_at, created_at
	          FROM practice_entries WHERE goal_id = $1 AND week = $2`

	err := r.db.GetContext(ctx, entry, query, goalID, week)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *practiceEntryRepository) Entries(ctx context.Context, goalID string) ([]*model.PracticeEntry, error) {
	var entries []*model.PracticeEntry
	query := `SELECT id, goal_id, week, completed, completed_at, created_at
	          FROM practice_entries WHERE goal_id = $1 ORDER BY week DESC`

	err := r.db.SelectContext(ctx, &entries, query, goalID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *practiceEntryRepository) CompletedForWeek(ctx context.Context, userID, week string) (map[string]bool, error) {
	var ids []string
	query := `SELECT e.goal_id FROM practice_entries e
	          JOIN practice_goals g ON g.id = e.goal_id
	          WHERE g.user_id = $1 AND e.week = $2 AND e.completed`

	err := r.db.SelectContext(ctx, &ids, query, userID, week)
	if err != nil {
		return nil, err
	}

	done := make(map[string]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}

// SetCompleted creates the week's entry on first use and overwrites its
// state afterwards.
func (r *practiceEntryRepository) SetCompleted(ctx context.Context, goalID, week string, completed bool, at time.Time) error {
	var completedAt *time.Time
	if completed {
		completedAt = &at
	}

	query := `
		INSERT INTO practice_entries (id, goal_id, week, completed, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (goal_id, week) DO UPDATE SET
			completed = excluded.completed,
			completed_at = excluded.completed_at
	`
	_, err := r.db.ExecContext(ctx, query, uuid.New().String(), goalID, week, completed, completedAt, at)
	return err
}
