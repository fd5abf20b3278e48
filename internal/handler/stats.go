package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/golfjournal/internal/chart"
	"github.com/templui/golfjournal/internal/ctxkeys"
	"github.com/templui/golfjournal/internal/service"
	"github.com/templui/golfjournal/internal/ui"
)

type StatsHandler struct {
	journalService *service.JournalService
}

func NewStatsHandler(journalService *service.JournalService) *StatsHandler {
	return &StatsHandler{
		journalService: journalService,
	}
}

func (h *StatsHandler) StatsPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.Stats(dashboard(r, h.journalService)))
}

// TrendPNG draws the last five totals, or a placeholder for an empty
// history.
func (h *StatsHandler) TrendPNG(w http.ResponseWriter, r *http.Request) {
	view := dashboard(r, h.journalService)

	png, err := chart.Trend(view.Summary.Trend, chart.DefaultPalette)
	if err != nil {
		slog.Error("failed to render trend chart", "error", err, "user_id", view.Goal.UserID)
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	_, err = w.Write(png)
	if err != nil {
		slog.Warn("failed to write trend chart", "error", err)
	}
}

// dashboard loads the signed-in user's view. Read failures are logged and
// give the empty view.
func dashboard(r *http.Request, journal *service.JournalService) service.View {
	user := ctxkeys.User(r.Context())

	view, err := journal.Dashboard(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to load dashboard", "error", err, "user_id", user.ID)
		return journal.Empty(user.ID)
	}
	return view
}
