package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/config"
	"github.com/templui/golfjournal/internal/ctxkeys"
	"github.com/templui/golfjournal/internal/db"
	"github.com/templui/golfjournal/internal/feed"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/progress"
	"github.com/templui/golfjournal/internal/repository"
	"github.com/templui/golfjournal/internal/service"
)

type testEnv struct {
	auth     *service.AuthService
	rounds   *service.RoundService
	goals    *service.GoalService
	journal  *service.JournalService
	practice *service.PracticeService
	exports  *service.ExportService
	hub      *LiveHub
	cfg      *config.Config
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

	email := service.NewEmailService("", "noreply@example.com", "http://localhost:8090", "Golf Journal", true)
	auth := service.NewAuthService(
		repository.NewUserRepository(database),
		repository.NewTokenRepository(database),
		email,
		"test-secret",
		false,
		time.Hour,
		15*time.Minute,
	)
	rounds := service.NewRoundService(repository.NewRoundRepository(database), roundsFeed)
	goals := service.NewGoalService(repository.NewGoalSettingRepository(database), goalsFeed, model.DefaultTargetScore)

	hub := NewLiveHub()
	t.Cleanup(hub.Close)

	return &testEnv{
		auth:     auth,
		rounds:   rounds,
		goals:    goals,
		journal:  service.NewJournalService(rounds, goals, progress.DefaultPolicy()),
		practice: service.NewPracticeService(repository.NewPracticeGoalRepository(database), repository.NewPracticeEntryRepository(database)),
		exports:  service.NewExportService(rounds, nil),
		hub:      hub,
		cfg:      &config.Config{AppName: "Golf Journal", AppURL: "http://localhost:8090"},
	}
}

func (e *testEnv) newUser(t *testing.T) *model.User {
	t.Helper()

	user, err := e.auth.SignInAnonymous(context.Background())
	require.NoError(t, err)
	return user
}

func (e *testEnv) appendRound(t *testing.T, userID, date string, strokes int) {
	t.Helper()

	scores := make(model.HoleScores, model.HoleCount)
	for i := range scores {
		v := strokes
		scores[i] = &v
	}
	_, err := e.rounds.Append(context.Background(), userID, model.RoundDraft{Date: date, Scores: scores})
	require.NoError(t, err)
}

// request builds a request as the auth middleware would hand it on.
func request(method, target string, user *model.User, form url.Values) *http.Request {
	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if user != nil {
		r = r.WithContext(ctxkeys.WithUser(r.Context(), user))
	}
	return r
}

// roundForm fills every hole with strokes.
func roundForm(date, course string, strokes int) url.Values {
	form := url.Values{"date": {date}, "course": {course}}
	for i := 1; i <= model.HoleCount; i++ {
		form.Set("hole"+strconv.Itoa(i), strconv.Itoa(strokes))
	}
	return form
}
