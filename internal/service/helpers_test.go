package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/db"
	"github.com/templui/golfjournal/internal/feed"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/progress"
	"github.com/templui/golfjournal/internal/repository"
)

type testEnv struct {
	db       *sqlx.DB
	auth     *AuthService
	rounds   *RoundService
	goals    *GoalService
	journal  *JournalService
	practice *PracticeService
	roundsFd *feed.Broker[[]*model.Round]
	goalsFd  *feed.Broker[model.GoalSetting]
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.Init("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	roundsFeed := feed.NewBroker[[]*model.Round]()
	goalsFeed := feed.NewBroker[model.GoalSetting]()
	t.Cleanup(roundsFeed.Close)
	t.Cleanup(goalsFeed.Close)

	email := NewEmailService("", "noreply@example.com", "http://localhost:8090", "Golf Journal", true)
	auth := NewAuthService(
		repository.NewUserRepository(database),
		repository.NewTokenRepository(database),
		email,
		"test-secret",
		false,
		time.Hour,
		15*time.Minute,
	)
	rounds := NewRoundService(repository.NewRoundRepository(database), roundsFeed)
	goals := NewGoalService(repository.NewGoalSettingRepository(database), goalsFeed, model.DefaultTargetScore)

	return &testEnv{
		db:       database,
		auth:     auth,
		rounds:   rounds,
		goals:    goals,
		journal:  NewJournalService(rounds, goals, progress.DefaultPolicy()),
		practice: NewPracticeService(repository.NewPracticeGoalRepository(database), repository.NewPracticeEntryRepository(database)),
		roundsFd: roundsFeed,
		goalsFd:  goalsFeed,
	}
}

func (e *testEnv) newUser(t *testing.T) *model.User {
	t.Helper()

	user, err := e.auth.SignInAnonymous(context.Background())
	require.NoError(t, err)
	return user
}

func (e *testEnv) appendRound(t *testing.T, userID, date string, strokes ...int) *model.Round {
	t.Helper()

	round, err := e.rounds.Append(context.Background(), userID, model.RoundDraft{Date: date, Scores: card(strokes...)})
	require.NoError(t, err)
	return round
}

// card spreads total-ish stroke counts over 18 holes: a single value v is
// used for every hole, several values fill holes in order.
func card(strokes ...int) model.HoleScores {
	scores := make(model.HoleScores, model.HoleCount)
	for i := range scores {
		v := strokes[0]
		if len(strokes) > 1 {
			if i >= len(strokes) {
				continue
			}
			v = strokes[i]
		}
		scores[i] = &v
	}
	return scores
}

// cardWithTotal builds a scorecard summing to total.
func cardWithTotal(total int) model.HoleScores {
	scores := make(model.HoleScores, model.HoleCount)
	base, extra := total/model.HoleCount, total%model.HoleCount
	for i := range scores {
		v := base
		if i < extra {
			v++
		}
		scores[i] = &v
	}
	return scores
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStorage) Save(_ context.Context, path string, body io.Reader, contentType string) error {
	var buf bytes.Buffer
	_, err := io.Copy(&buf, body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = buf.Bytes()
	m.types[path] = contentType
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

func (m *memoryStorage) PresignedURL(_ context.Context, path string) (string, error) {
	return "https://storage.test/" + path + "?signed=1", nil
}
