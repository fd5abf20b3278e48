//go:generate go tool templ generate

package ui

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

func Render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	RenderStatus(w, r, http.StatusOK, c)
}

func RenderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := c.Render(r.Context(), w)
	if err != nil {
		slog.Error("render failed", "error", err, "path", r.URL.Path)
	}
}
