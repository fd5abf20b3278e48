package repository

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/templui/golfjournal/internal/model"
)

// RoundRepository is append-only. There is no update or delete.
type RoundRepository interface {
	Create(ctx context.Context, round *model.Round) error
	ByUser(ctx context.Context, userID string) ([]*model.Round, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type roundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) Create(ctx context.Context, round *model.Round) error {
	query := `INSERT INTO rounds (id, user_id, date, course, scores, total_score, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		round.ID,
		round.UserID,
		round.Date,
		round.Course,
		round.Scores,
		round.TotalScore,
		round.CreatedAt,
	)
	return err
}

// ByUser returns the user's rounds newest first. Rows that fail Check are
// logged and left out of the result.
func (r *roundRepository) ByUser(ctx context.Context, userID string) ([]*model.Round, error) {
	var rows []*model.Round
	query := `SELECT id, user_id, date, course, scores, total_score, created_at
	          FROM rounds WHERE user_id = $1
	          ORDER BY date DESC, created_at DESC`

	err := r.db.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		return nil, err
	}

	rounds := make([]*model.Round, 0, len(rows))
	for _, round := range rows {
		err := round.Check()
		if err != nil {
			slog.Warn("skipping malformed round", "error", err, "user_id", userID)
			continue
		}
		rounds = append(rounds, round)
	}

	return rounds, nil
}

func (r *roundRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM rounds WHERE user_id = $1`

	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}
