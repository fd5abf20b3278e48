package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/golfjournal/internal/model"
)

var (
	ErrPracticeGoalNotFound = errors.New("practice goal not found")
)

type PracticeGoalRepository interface {
	Create(ctx context.Context, goal *model.PracticeGoal) error
	// ByID only finds goals owned by userID.
	ByID(ctx context.Context, userID, goalID string) (*model.PracticeGoal, error)
	Goals(ctx context.Context, userID string) ([]*model.PracticeGoal, error)
	CountUserGoals(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, goal *model.PracticeGoal) error
	Delete(ctx context.Context, userID, goalID string) error
}

type practiceGoalRepository struct {
	db *sqlx.DB
}

func NewPracticeGoalRepository(db *sqlx.DB) PracticeGoalRepository {
	return &practiceGoalRepository{db: db}
}

func (r *practiceGoalRepository) Create(ctx context.Context, goal *model.PracticeGoal) error {
	query := `INSERT INTO practice_goals (id, user_id, title, description, icon, position, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Icon,
		goal.Position,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *practiceGoalRepository) ByID(ctx context.Context, userID, goalID string) (*model.PracticeGoal, error) {
	goal := &model.PracticeGoal{}
	query := `SELECT id, user_id, title, description, icon, position, created_at, updated_at
	          FROM practice_goals WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPracticeGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *practiceGoalRepository) Goals(ctx context.Context, userID string) ([]*model.PracticeGoal, error) {
	var goals []*model.PracticeGoal
	query := `SELECT id, user_id, title, description, icon, position, created_at, updated_at
	          FROM practice_goals WHERE user_id = $1
	          ORDER BY position ASC, created_at ASC`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *practiceGoalRepository) CountUserGoals(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM practice_goals WHERE user_id = $1`

	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

func (r *practiceGoalRepository) Update(ctx context.Context, goal *model.PracticeGoal) error {
	query := `UPDATE practice_goals
	          SET title = $1, description = $2, icon = $3, position = $4, updated_at = $5
	          WHERE id = $6 AND user_id = $7`

	result, err := r.db.ExecContext(ctx, query,
		goal.Title,
		goal.Description,
		goal.Icon,
		goal.Position,
		time.Now().UTC(),
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrPracticeGoalNotFound)
}

func (r *practiceGoalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM practice_goals WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrPracticeGoalNotFound)
}

// expectRow maps a write that touched nothing to notFound.
func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
