package repository

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/golfjournal/internal/model"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrTokenNotFound = errors.New("token not found")
)

type TokenRepository interface {
	// Create stores the digest of value. The plain value is never persisted.
	Create(ctx context.Context, token *model.Token, value string) error
	ConsumeToken(ctx context.Context, value string) (*model.Token, error)
	DeleteByUserAndType(ctx context.Context, userID, tokenType string) error
	CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// TokenDigest is the stored form of a token value.
func TokenDigest(value string) string {
	sum := blake2b.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func (r *tokenRepository) Create(ctx context.Context, token *model.Token, value string) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	token.Digest = TokenDigest(value)

	query := `
		INSERT INTO tokens (id, user_id, type, digest, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.Type,
		token.Digest,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return err
}

// ConsumeToken marks the token used and returns it in a single statement, so
// two concurrent redemptions cannot both succeed.
func (r *tokenRepository) ConsumeToken(ctx context.Context, value string) (*model.Token, error) {
	var t model.Token
	now := time.Now().UTC()

	query := `
		UPDATE tokens
		SET used_at = $1
		WHERE digest = $2
		AND used_at IS NULL
		AND expires_at > $1
		RETURNING id, user_id, type, digest, expires_at, used_at, created_at
	`

	err := r.db.GetContext(ctx, &t, query, now, TokenDigest(value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *tokenRepository) DeleteByUserAndType(ctx context.Context, userID, tokenType string) error {
	query := `DELETE FROM tokens WHERE user_id = $1 AND type = $2 AND used_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, userID, tokenType)
	return err
}

// CleanupExpired removes used and expired tokens older than the given duration.
func (r *tokenRepository) CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	query := `
		DELETE FROM tokens
		WHERE (used_at IS NOT NULL AND used_at < $1)
		   OR (expires_at < $1)
	`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
