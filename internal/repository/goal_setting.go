package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/golfjournal/internal/model"
)

type GoalSettingRepository interface {
	// ByUserID returns nil without error when the user has never saved a setting.
	ByUserID(ctx context.Context, userID string) (*model.GoalSettingRow, error)
	MergeWrite(ctx context.Context, userID string, patch model.GoalSettingPatch, updatedAt time.Time) error
}

type goalSettingRepository struct {
	db *sqlx.DB
}

func NewGoalSettingRepository(db *sqlx.DB) GoalSettingRepository {
	return &goalSettingRepository{db: db}
}

func (r *goalSettingRepository) ByUserID(ctx context.Context, userID string) (*model.GoalSettingRow, error) {
	row := &model.GoalSettingRow{}
	query := `SELECT user_id, target_score, updated_at FROM goal_settings WHERE user_id = $1`

	err := r.db.GetContext(ctx, row, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row, nil
}

// MergeWrite creates the row on first write. Afterwards only the non-nil patch
// fields and updated_at change, in one statement.
func (r *goalSettingRepository) MergeWrite(ctx context.Context, userID string, patch model.GoalSettingPatch, updatedAt time.Time) error {
	query := `
		INSERT INTO goal_settings (user_id, target_score, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			target_score = COALESCE(excluded.target_score, goal_settings.target_score),
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, userID, patch.TargetScore, updatedAt)
	return err
}
