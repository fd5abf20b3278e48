package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/db"
	"github.com/templui/golfjournal/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func createUser(t *testing.T, database *sqlx.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		ID:        uuid.New().String(),
		Provider:  model.ProviderAnonymous,
		CreatedAt: time.Now().UTC(),
	}
	if email != "" {
		user.Email = &email
		user.Provider = model.ProviderToken
	}
	require.NoError(t, NewUserRepository(database).Create(context.Background(), user))
	return user
}

func intp(v int) *int { return &v }
