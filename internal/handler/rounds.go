package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/golfjournal/internal/ctxkeys"
	"github.com/templui/golfjournal/internal/export"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/service"
	"github.com/templui/golfjournal/internal/ui"
	"github.com/templui/golfjournal/internal/validation"
)

type RoundHandler struct {
	roundService  *service.RoundService
	exportService *service.ExportService
}

func NewRoundHandler(roundService *service.RoundService, exportService *service.ExportService) *RoundHandler {
	return &RoundHandler{
		roundService:  roundService,
		exportService: exportService,
	}
}

func (h *RoundHandler) NewRoundPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.NewRound(ui.RoundForm{}))
}

// Create saves a round. Rejected input is shown again with the message and
// nothing is stored.
func (h *RoundHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	form := ui.RoundForm{
		Date:   r.FormValue("date"),
		Course: r.FormValue("course"),
	}
	raw := make([]string, model.HoleCount)
	for i := range raw {
		raw[i] = r.FormValue("hole" + strconv.Itoa(i+1))
		form.Holes[i] = raw[i]
	}

	scores, err := validation.ParseHoleScores(raw)
	if err != nil {
		form.Error = err.Error()
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, ui.NewRound(form))
		return
	}

	_, err = h.roundService.Append(r.Context(), user.ID, model.RoundDraft{
		Date:   form.Date,
		Course: form.Course,
		Scores: scores,
	})
	if err != nil {
		if isInputError(err) {
			form.Error = err.Error()
			ui.RenderStatus(w, r, http.StatusUnprocessableEntity, ui.NewRound(form))
			return
		}
		slog.Error("failed to append round", "error", err, "user_id", user.ID)
		form.Error = "Could not save the round. Please try again."
		ui.RenderStatus(w, r, http.StatusInternalServerError, ui.NewRound(form))
		return
	}

	http.Redirect(w, r, "/app/rounds", http.StatusSeeOther)
}

// History shows every round, newest first. A failed read shows an empty
// list.
func (h *RoundHandler) History(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	rounds, err := h.roundService.Rounds(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to load rounds", "error", err, "user_id", user.ID)
		rounds = nil
	}

	ui.Render(w, r, ui.History(rounds, h.exportService.ArchiveEnabled()))
}

func (h *RoundHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="rounds.xlsx"`)

	err := h.exportService.WriteWorkbook(r.Context(), user.ID, w)
	if err != nil {
		slog.Error("failed to export rounds", "error", err, "user_id", user.ID)
		w.Header().Del("Content-Disposition")
		http.Error(w, "Failed to export rounds", http.StatusInternalServerError)
	}
}

func (h *RoundHandler) Archive(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	url, err := h.exportService.Archive(r.Context(), user.ID)
	if errors.Is(err, service.ErrArchiveDisabled) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to archive export", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to archive export", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, url, http.StatusSeeOther)
}

func isInputError(err error) bool {
	return errors.Is(err, validation.ErrInvalidDate) ||
		errors.Is(err, validation.ErrCourseTooLong) ||
		errors.Is(err, validation.ErrInvalidHoleScore) ||
		errors.Is(err, model.ErrInvalidScorecard)
}
