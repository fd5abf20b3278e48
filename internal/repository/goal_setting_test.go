package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/model"
)

func TestGoalSettingRepository_MergeWrite(t *testing.T) {
	database := newTestDB(t)
	repo := NewGoalSettingRepository(database)
	ctx := context.Background()
	user := createUser(t, database, "")

	row, err := repo.ByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.Equal(t, model.DefaultTargetScore, row.Resolve(user.ID, model.DefaultTargetScore).TargetScore)

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MergeWrite(ctx, user.ID, model.GoalSettingPatch{TargetScore: intp(80)}, first))

	row, err = repo.ByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, row.TargetScore)
	assert.Equal(t, 80, *row.TargetScore)

	// An empty patch only touches updated_at.
	second := first.Add(time.Hour)
	require.NoError(t, repo.MergeWrite(ctx, user.ID, model.GoalSettingPatch{}, second))

	row, err = repo.ByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, *row.TargetScore)
	require.NotNil(t, row.UpdatedAt)
	assert.True(t, second.Equal(*row.UpdatedAt))
}

func TestGoalSettingRepository_FirstWriteWithoutTarget(t *testing.T) {
	database := newTestDB(t)
	repo := NewGoalSettingRepository(database)
	ctx := context.Background()
	user := createUser(t, database, "")

	require.NoError(t, repo.MergeWrite(ctx, user.ID, model.GoalSettingPatch{}, time.Now().UTC()))

	row, err := repo.ByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Nil(t, row.TargetScore)
	assert.Equal(t, 85, row.Resolve(user.ID, 85).TargetScore)
}
