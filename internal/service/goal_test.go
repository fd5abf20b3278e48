package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/validation"
)

func TestGoalService_DefaultsWhenUnset(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)

	setting, err := env.goals.Setting(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 85, setting.TargetScore)
	assert.Nil(t, setting.UpdatedAt)
}

func TestGoalService_SetTarget(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	ctx := context.Background()

	setting, err := env.goals.SetTarget(ctx, user.ID, "80")
	require.NoError(t, err)
	assert.Equal(t, 80, setting.TargetScore)
	require.NotNil(t, setting.UpdatedAt)

	for _, raw := range []string{"", "eighty", "80.5", "12", "500"} {
		t.Run(raw, func(t *testing.T) {
			_, err := env.goals.SetTarget(ctx, user.ID, raw)
			assert.ErrorIs(t, err, validation.ErrInvalidTargetScore)

			setting, err := env.goals.Setting(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, 80, setting.TargetScore)
		})
	}
}

func TestGoalService_MergeWriteKeepsOtherFields(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	ctx := context.Background()

	_, err := env.goals.SetTarget(ctx, user.ID, "78")
	require.NoError(t, err)

	require.NoError(t, env.goals.MergeWrite(ctx, user.ID, model.GoalSettingPatch{}))

	setting, err := env.goals.Setting(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 78, setting.TargetScore)
}

func TestGoalService_SubscribeSeesEveryWrite(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	ctx := context.Background()

	var targets []int
	sub, err := env.goals.Subscribe(ctx, user.ID, func(s model.GoalSetting) {
		targets = append(targets, s.TargetScore)
	})
	require.NoError(t, err)
	defer sub.Close()

	_, err = env.goals.SetTarget(ctx, user.ID, "90")
	require.NoError(t, err)
	_, err = env.goals.SetTarget(ctx, user.ID, "nope")
	require.Error(t, err)
	_, err = env.goals.SetTarget(ctx, user.ID, "88")
	require.NoError(t, err)

	assert.Equal(t, []int{85, 90, 88}, targets)
}

func TestGoalService_ConcurrentWritesSerialize(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	ctx := context.Background()

	var mu sync.Mutex
	var delivered []int
	sub, err := env.goals.Subscribe(ctx, user.ID, func(s model.GoalSetting) {
		mu.Lock()
		delivered = append(delivered, s.TargetScore)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(target int) {
			defer wg.Done()
			_, err := env.goals.SetTarget(ctx, user.ID, fmt.Sprint(target))
			assert.NoError(t, err)
		}(70 + i)
	}
	wg.Wait()

	setting, err := env.goals.Setting(ctx, user.ID)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 11)
	// The last snapshot delivered matches what is stored.
	assert.Equal(t, setting.TargetScore, delivered[len(delivered)-1])
}

func TestNewGoalService_FallsBackOnBadDefault(t *testing.T) {
	env := newTestEnv(t)
	goals := NewGoalService(nil, env.goalsFd, 5)
	assert.Equal(t, model.DefaultTargetScore, goals.defaultTarget)
}
