package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/model"
)

func TestUserRepository(t *testing.T) {
	database := newTestDB(t)
	repo := NewUserRepository(database)
	ctx := context.Background()

	t.Run("anonymous user has no email", func(t *testing.T) {
		user := createUser(t, database, "")

		got, err := repo.ByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, got.IsAnonymous())
		assert.Equal(t, model.ProviderAnonymous, got.Provider)
	})

	t.Run("lookup by email", func(t *testing.T) {
		user := createUser(t, database, "ada@example.com")

		got, err := repo.ByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		email := "dup@example.com"
		createUser(t, database, email)

		err := repo.Create(ctx, &model.User{ID: "other", Email: &email, Provider: model.ProviderGoogle, CreatedAt: time.Now()})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.ByID(ctx, "nope")
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = repo.ByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
