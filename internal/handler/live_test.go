package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/ctxkeys"
	"github.com/templui/golfjournal/internal/service"
)

func TestLive(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	live := NewLiveHandler(env.journal, env.hub)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		live.Live(w, r.WithContext(ctxkeys.WithUser(r.Context(), user)))
	}))
	t.Cleanup(server.Close)

	header := http.Header{}
	header.Set("Cookie", service.AuthCookieName+"=session-1")
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	read := func() service.View {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var view service.View
		require.NoError(t, conn.ReadJSON(&view))
		return view
	}

	first := read()
	assert.Equal(t, 0, first.Summary.RoundCount)
	assert.False(t, first.Progress.HasData)
	assert.Equal(t, 85, first.Goal.TargetScore)
	assert.Equal(t, 1, env.hub.Connections("session-1"))

	env.appendRound(t, user.ID, "2024-05-01", 5)
	view := read()
	assert.Equal(t, 1, view.Summary.RoundCount)
	assert.Equal(t, 90.0, view.Summary.Average)
	assert.Equal(t, []int{90}, view.Summary.Trend)

	env.hub.CloseSession("session-1")
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	assert.Eventually(t, func() bool {
		return env.hub.Connections("session-1") == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestLive_RejectsCrossOrigin(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t)
	live := NewLiveHandler(env.journal, env.hub)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		live.Live(w, r.WithContext(ctxkeys.WithUser(r.Context(), user)))
	}))
	t.Cleanup(server.Close)

	header := http.Header{}
	header.Set("Origin", "https://evil.example.com")
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
