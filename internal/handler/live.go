package handler

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/templui/golfjournal/internal/ctxkeys"
	"github.com/templui/golfjournal/internal/feed"
	"github.com/templui/golfjournal/internal/metrics"
	"github.com/templui/golfjournal/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// clients only send control frames
	maxMessageSize = 512
)

// LiveHub tracks open live connections by session cookie so signing out
// can close them.
type LiveHub struct {
	mu       sync.Mutex
	sessions map[string]map[*websocket.Conn]struct{}
}

func NewLiveHub() *LiveHub {
	return &LiveHub{sessions: make(map[string]map[*websocket.Conn]struct{})}
}

func (h *LiveHub) add(session string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.sessions[session]
	if !ok {
		conns = make(map[*websocket.Conn]struct{})
		h.sessions[session] = conns
	}
	conns[conn] = struct{}{}
}

func (h *LiveHub) remove(session string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.sessions[session]
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.sessions, session)
	}
}

// Connections returns how many live connections a session has open.
func (h *LiveHub) Connections(session string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions[session])
}

// CloseSession closes every live connection opened with the session.
func (h *LiveHub) CloseSession(session string) {
	h.mu.Lock()
	conns := h.sessions[session]
	delete(h.sessions, session)
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "signed out")
	for conn := range conns {
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = conn.Close()
	}
}

// Close drops every connection, for shutdown.
func (h *LiveHub) Close() {
	h.mu.Lock()
	sessions := make([]string, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		h.CloseSession(s)
	}
}

type LiveHandler struct {
	journalService *service.JournalService
	hub            *LiveHub
	upgrader       websocket.Upgrader
}

// NewLiveHandler serves the live feed. The upgrader's default origin check
// only accepts same-host pages.
func NewLiveHandler(journalService *service.JournalService, hub *LiveHub) *LiveHandler {
	return &LiveHandler{
		journalService: journalService,
		hub:            hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Live streams the dashboard view as JSON: once on connect, then after every
// change to the user's rounds or goal. A slow client skips stale views.
func (h *LiveHandler) Live(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var session string
	cookie, err := r.Cookie(service.AuthCookieName)
	if err == nil {
		session = cookie.Value
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied
		slog.Warn("live upgrade failed", "error", err, "user_id", user.ID)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	h.hub.add(session, conn)
	defer h.hub.remove(session, conn)
	metrics.LiveConnected()
	defer metrics.LiveDisconnected()

	views := feed.NewLatest[service.View]()
	watch, err := h.journalService.Watch(r.Context(), user.ID, views.Put)
	if err != nil {
		slog.Error("failed to start live feed", "error", err, "user_id", user.ID)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "unavailable")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return
	}
	defer watch.Close()

	done := make(chan struct{})
	go readPump(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case view := <-views.C():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = conn.WriteJSON(view)
			if err != nil {
				slog.Debug("live write failed", "error", err, "user_id", user.ID)
				return
			}
		case <-ticker.C:
			err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			if err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readPump handles pongs and the client's close; done is closed once the
// connection stops reading.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			return
		}
	}
}
