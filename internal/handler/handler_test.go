package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/export"
	"github.com/templui/golfjournal/internal/service"
)

func TestRoundHandler_Create(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	h := NewRoundHandler(env.rounds, env.exports)

	t.Run("saves and redirects", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Create(w, request(http.MethodPost, "/app/rounds", user, roundForm("2024-05-01", "  Linkou  ", 5)))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/app/rounds", w.Header().Get("Location"))

		rounds, err := env.rounds.Rounds(context.Background(), user.ID)
		require.NoError(t, err)
		require.Len(t, rounds, 1)
		assert.Equal(t, 90, rounds[0].TotalScore)
		assert.Equal(t, "Linkou", rounds[0].Course)
	})

	t.Run("rejects a bad hole score", func(t *testing.T) {
		form := roundForm("2024-05-02", "", 4)
		form.Set("hole7", "abc")

		w := httptest.NewRecorder()
		h.Create(w, request(http.MethodPost, "/app/rounds", user, form))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "hole 7")
		assert.Contains(t, w.Body.String(), `value="abc"`)
		assert.Contains(t, w.Body.String(), `id="round-total" class="ml-1 text-2xl text-green-800">68<`)
	})

	t.Run("rejects a bad date", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Create(w, request(http.MethodPost, "/app/rounds", user, roundForm("zzzz", "", 4)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("rejects an impossible ISO date", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Create(w, request(http.MethodPost, "/app/rounds", user, roundForm("2024-13-45", "", 4)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `value="2024-13-45"`)
	})

	rounds, err := env.rounds.Rounds(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, rounds, 1, "rejected rounds are never stored")
}

func TestRoundHandler_HistoryAndExport(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	env.appendRound(t, user.ID, "2024-05-01", 5)
	env.appendRound(t, user.ID, "2024-05-03", 4)
	h := NewRoundHandler(env.rounds, env.exports)

	w := httptest.NewRecorder()
	h.History(w, request(http.MethodGet, "/app/rounds", user, nil))
	body := w.Body.String()
	require.Equal(t, http.StatusOK, w.Code)
	assert.Less(t, strings.Index(body, "2024-05-03"), strings.Index(body, "2024-05-01"))
	assert.NotContains(t, body, "/app/rounds/export/archive")

	w = httptest.NewRecorder()
	h.Export(w, request(http.MethodGet, "/app/rounds/export.xlsx", user, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"), "xlsx is a zip archive")

	w = httptest.NewRecorder()
	h.Archive(w, request(http.MethodPost, "/app/rounds/export/archive", user, url.Values{}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsHandler(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	h := NewStatsHandler(env.journal)

	w := httptest.NewRecorder()
	h.StatsPage(w, request(http.MethodGet, "/app/stats", user, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No rounds yet")

	env.appendRound(t, user.ID, "2024-05-01", 5)

	w = httptest.NewRecorder()
	h.StatsPage(w, request(http.MethodGet, "/app/stats", user, nil))
	assert.Contains(t, w.Body.String(), `data-digits="1">90.0<`)

	w = httptest.NewRecorder()
	h.TrendPNG(w, request(http.MethodGet, "/app/stats/trend.png", user, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
}

func TestGoalHandler_SetTarget(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	env.appendRound(t, user.ID, "2024-05-01", 5)
	h := NewGoalHandler(env.goals, env.journal, env.practice)

	t.Run("patch returns the recomputed view", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.SetTarget(w, request(http.MethodPatch, "/app/goals/target", user, url.Values{"target": {"90"}}))

		require.Equal(t, http.StatusOK, w.Code)
		var view service.View
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, 90, view.Goal.TargetScore)
		assert.Equal(t, 100.0, view.Progress.Percent)
	})

	t.Run("invalid input keeps the stored target", func(t *testing.T) {
		for _, raw := range []string{"abc", "17", "201", "85.5", ""} {
			w := httptest.NewRecorder()
			h.SetTarget(w, request(http.MethodPatch, "/app/goals/target", user, url.Values{"target": {raw}}))

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, raw)
			assert.Contains(t, w.Body.String(), `"error"`)
		}

		setting, err := env.goals.Setting(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, 90, setting.TargetScore)
	})

	t.Run("form post redirects", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.SetTarget(w, request(http.MethodPost, "/app/goals/target", user, url.Values{"target": {"80"}}))
		assert.Equal(t, http.StatusSeeOther, w.Code)

		w = httptest.NewRecorder()
		h.SetTarget(w, request(http.MethodPost, "/app/goals/target", user, url.Values{"target": {"9"}}))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "target score must be a whole number")
	})

	w := httptest.NewRecorder()
	h.GoalsPage(w, request(http.MethodGet, "/app/goals", user, nil))
	assert.Contains(t, w.Body.String(), `data-field="goal.targetScore">80<`)
	assert.Contains(t, w.Body.String(), "Putting practice")
}

func TestGoalHandler_Practice(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	other := env.newUser(t)
	h := NewGoalHandler(env.goals, env.journal, env.practice)

	checklist, err := env.practice.Checklist(context.Background(), user.ID)
	require.NoError(t, err)
	goalID := checklist.Items[0].Goal.ID

	withID := func(r *http.Request, id string) *http.Request {
		r.SetPathValue("id", id)
		return r
	}

	t.Run("toggle checks the goal for this week", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.TogglePractice(w, withID(request(http.MethodPost, "/app/goals/practice/"+goalID+"/toggle", user, url.Values{}), goalID))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/app/goals#practice", w.Header().Get("Location"))

		checklist, err := env.practice.Checklist(context.Background(), user.ID)
		require.NoError(t, err)
		assert.True(t, checklist.Items[0].Checked)
	})

	t.Run("another user's goal is not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.TogglePractice(w, withID(request(http.MethodPost, "/app/goals/practice/"+goalID+"/toggle", other, url.Values{}), goalID))
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = httptest.NewRecorder()
		h.DeletePractice(w, withID(request(http.MethodPost, "/app/goals/practice/"+goalID+"/delete", other, url.Values{}), goalID))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("add", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.AddPractice(w, request(http.MethodPost, "/app/goals/practice", user, url.Values{"title": {"Bunker shots"}}))
		assert.Equal(t, http.StatusSeeOther, w.Code)

		w = httptest.NewRecorder()
		h.AddPractice(w, request(http.MethodPost, "/app/goals/practice", user, url.Values{"title": {"  "}}))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "practice goal needs a title")
		assert.Contains(t, w.Body.String(), "Bunker shots")
	})

	t.Run("delete", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.DeletePractice(w, withID(request(http.MethodPost, "/app/goals/practice/"+goalID+"/delete", user, url.Values{}), goalID))
		assert.Equal(t, http.StatusSeeOther, w.Code)

		w = httptest.NewRecorder()
		h.GoalsPage(w, request(http.MethodGet, "/app/goals", user, nil))
		assert.NotContains(t, w.Body.String(), "Putting practice")
	})
}

func TestAuthHandler(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.auth, env.hub, env.cfg)

	t.Run("anonymous sign-in starts a session", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Anonymous(w, request(http.MethodPost, "/auth/anonymous", nil, url.Values{}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, signedInPath, w.Header().Get("Location"))
		require.NotEmpty(t, w.Result().Cookies())
		assert.Equal(t, service.AuthCookieName, w.Result().Cookies()[0].Name)
	})

	t.Run("sign-in token works once", func(t *testing.T) {
		_, value, err := env.auth.IssueSignInToken(context.Background(), "player@example.com")
		require.NoError(t, err)

		redeem := func() *httptest.ResponseRecorder {
			r := request(http.MethodGet, "/auth/token/"+value, nil, nil)
			r.SetPathValue("token", value)
			w := httptest.NewRecorder()
			h.RedeemToken(w, r)
			return w
		}

		w := redeem()
		assert.Equal(t, http.StatusSeeOther, w.Code)

		w = redeem()
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired sign-in link")
	})

	t.Run("email form validates the address", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.SendToken(w, request(http.MethodPost, "/auth/token", nil, url.Values{"email": {"nope"}}))
		assert.Contains(t, w.Body.String(), "valid email address")

		w = httptest.NewRecorder()
		h.SendToken(w, request(http.MethodPost, "/auth/token", nil, url.Values{"email": {"Player@Example.com"}}))
		assert.Contains(t, w.Body.String(), "Check your inbox")
	})

	t.Run("oauth callback rejects a bad state", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.GoogleCallback(w, request(http.MethodGet, "/auth/google/callback?state=x&code=y", nil, nil))
		assert.Contains(t, w.Body.String(), oauthFailed)
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		r := request(http.MethodPost, "/auth/logout", nil, url.Values{})
		r.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: "session"})
		w := httptest.NewRecorder()
		h.Logout(w, r)

		assert.Equal(t, "/auth", w.Header().Get("Location"))
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
	})
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	Healthz(fakePinger{})(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	Healthz(fakePinger{err: errors.New("down")})(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHome(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	Home(w, request(http.MethodGet, "/", nil, nil))
	assert.Equal(t, "/auth", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	Home(w, request(http.MethodGet, "/", env.newUser(t), nil))
	assert.Equal(t, signedInPath, w.Header().Get("Location"))

	w = httptest.NewRecorder()
	NotFound(w, request(http.MethodGet, "/nowhere", nil, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
