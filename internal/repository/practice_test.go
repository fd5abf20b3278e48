package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/model"
)

func createPracticeGoal(t *testing.T, repo PracticeGoalRepository, userID, title string, position int) *model.PracticeGoal {
	t.Helper()

	now := time.Now().UTC()
	goal := &model.PracticeGoal{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), goal))
	return goal
}

func TestPracticeGoalRepository(t *testing.T) {
	database := newTestDB(t)
	repo := NewPracticeGoalRepository(database)
	ctx := context.Background()
	user := createUser(t, database, "")
	other := createUser(t, database, "")

	second := createPracticeGoal(t, repo, user.ID, "Driving accuracy", 1)
	first := createPracticeGoal(t, repo, user.ID, "Putting practice", 0)
	createPracticeGoal(t, repo, other.ID, "Bunker shots", 0)

	goals, err := repo.Goals(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, first.ID, goals[0].ID)
	assert.Equal(t, second.ID, goals[1].ID)

	count, err := repo.CountUserGoals(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	t.Run("ownership", func(t *testing.T) {
		_, err := repo.ByID(ctx, other.ID, first.ID)
		assert.ErrorIs(t, err, ErrPracticeGoalNotFound)

		err = repo.Delete(ctx, other.ID, first.ID)
		assert.ErrorIs(t, err, ErrPracticeGoalNotFound)

		stranger := *first
		stranger.UserID = other.ID
		assert.ErrorIs(t, repo.Update(ctx, &stranger), ErrPracticeGoalNotFound)
	})

	t.Run("update", func(t *testing.T) {
		first.Title = "Lag putting"
		require.NoError(t, repo.Update(ctx, first))

		got, err := repo.ByID(ctx, user.ID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Lag putting", got.Title)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, user.ID, second.ID))

		_, err := repo.ByID(ctx, user.ID, second.ID)
		assert.ErrorIs(t, err, ErrPracticeGoalNotFound)
	})
}

func TestPracticeEntryRepository_SetCompleted(t *testing.T) {
	database := newTestDB(t)
	goals := NewPracticeGoalRepository(database)
	entries := NewPracticeEntryRepository(database)
	ctx := context.Background()
	user := createUser(t, database, "")
	goal := createPracticeGoal(t, goals, user.ID, "Short game", 0)
	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	entry, err := entries.Entry(ctx, goal.ID, "2024-W11")
	require.NoError(t, err)
	assert.Nil(t, entry)

	require.NoError(t, entries.SetCompleted(ctx, goal.ID, "2024-W11", true, at))

	entry, err = entries.Entry(ctx, goal.ID, "2024-W11")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.Completed)
	require.NotNil(t, entry.CompletedAt)

	done, err := entries.CompletedForWeek(ctx, user.ID, "2024-W11")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{goal.ID: true}, done)

	done, err = entries.CompletedForWeek(ctx, user.ID, "2024-W12")
	require.NoError(t, err)
	assert.Empty(t, done)

	// Second write for the same week overwrites instead of adding a row.
	require.NoError(t, entries.SetCompleted(ctx, goal.ID, "2024-W11", false, at.Add(time.Hour)))

	entry, err = entries.Entry(ctx, goal.ID, "2024-W11")
	require.NoError(t, err)
	assert.False(t, entry.Completed)
	assert.Nil(t, entry.CompletedAt)

	all, err := entries.Entries(ctx, goal.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPracticeEntryRepository_CascadesWithGoal(t *testing.T) {
	database := newTestDB(t)
	// matches the foreign_keys pragma in the default DSN
	_, err := database.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	goals := NewPracticeGoalRepository(database)
	entries := NewPracticeEntryRepository(database)
	ctx := context.Background()
	user := createUser(t, database, "")
	goal := createPracticeGoal(t, goals, user.ID, "Putting practice", 0)

	require.NoError(t, entries.SetCompleted(ctx, goal.ID, "2024-W11", true, time.Now().UTC()))
	require.NoError(t, goals.Delete(ctx, user.ID, goal.ID))

	all, err := entries.Entries(ctx, goal.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}
