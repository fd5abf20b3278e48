package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/golfjournal/internal/ctxkeys"
	"github.com/templui/golfjournal/internal/ui"
)

// Home sends visitors to their statistics or the sign-in prompt.
func Home(w http.ResponseWriter, r *http.Request) {
	if ctxkeys.User(r.Context()) == nil {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, signedInPath, http.StatusSeeOther)
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFound())
}

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Healthz reports whether the database answers.
func Healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		err := db.PingContext(ctx)
		if err != nil {
			slog.Error("health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	}
}
