package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/golfjournal/internal/ctxkeys"
	"github.com/templui/golfjournal/internal/repository"
	"github.com/templui/golfjournal/internal/service"
	"github.com/templui/golfjournal/internal/ui"
	"github.com/templui/golfjournal/internal/validation"
)

type GoalHandler struct {
	goalService     *service.GoalService
	journalService  *service.JournalService
	practiceService *service.PracticeService
}

func NewGoalHandler(goalService *service.GoalService, journalService *service.JournalService, practiceService *service.PracticeService) *GoalHandler {
	return &GoalHandler{
		goalService:     goalService,
		journalService:  journalService,
		practiceService: practiceService,
	}
}

func (h *GoalHandler) GoalsPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "")
}

// renderPage shows the tracker and the practice checklist. message is shown
// above them.
func (h *GoalHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	user := ctxkeys.User(r.Context())

	checklist, err := h.practiceService.Checklist(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to load practice checklist", "error", err, "user_id", user.ID)
	}

	ui.RenderStatus(w, r, status, ui.Goals(dashboard(r, h.journalService), checklist, message))
}

// SetTarget updates the target score. PATCH requests from the page script
// get the recomputed view as JSON; a plain form POST gets the page back.
func (h *GoalHandler) SetTarget(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	asJSON := r.Method == http.MethodPatch

	_, err := h.goalService.SetTarget(r.Context(), user.ID, r.FormValue("target"))
	if err != nil {
		status := http.StatusUnprocessableEntity
		message := validation.ErrInvalidTargetScore.Error()
		if !errors.Is(err, validation.ErrInvalidTargetScore) {
			slog.Error("failed to set target score", "error", err, "user_id", user.ID)
			status = http.StatusInternalServerError
			message = "Could not save the target. Please try again."
		}

		if asJSON {
			writeJSON(w, status, map[string]string{"error": message})
			return
		}
		h.renderPage(w, r, status, message)
		return
	}

	if asJSON {
		writeJSON(w, http.StatusOK, dashboard(r, h.journalService))
		return
	}
	http.Redirect(w, r, "/app/goals", http.StatusSeeOther)
}

// AddPractice puts a new drill on the checklist.
func (h *GoalHandler) AddPractice(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	_, err := h.practiceService.Add(r.Context(), user.ID, r.FormValue("title"), r.FormValue("description"))
	if err != nil {
		h.practiceError(w, r, err)
		return
	}

	http.Redirect(w, r, "/app/goals", http.StatusSeeOther)
}

// TogglePractice checks or unchecks a drill for this week.
func (h *GoalHandler) TogglePractice(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	_, err := h.practiceService.Toggle(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		h.practiceError(w, r, err)
		return
	}

	http.Redirect(w, r, "/app/goals#practice", http.StatusSeeOther)
}

func (h *GoalHandler) DeletePractice(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.practiceService.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		h.practiceError(w, r, err)
		return
	}

	http.Redirect(w, r, "/app/goals#practice", http.StatusSeeOther)
}

func (h *GoalHandler) practiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrPracticeGoalNotFound):
		ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFound())
	case errors.Is(err, validation.ErrPracticeTitleRequired),
		errors.Is(err, validation.ErrPracticeTitleTooLong),
		errors.Is(err, validation.ErrPracticeNoteTooLong),
		errors.Is(err, service.ErrPracticeGoalLimit),
		errors.Is(err, service.ErrLastPracticeGoal):
		h.renderPage(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("failed to update practice checklist", "error", err, "user_id", ctxkeys.User(r.Context()).ID)
		h.renderPage(w, r, http.StatusInternalServerError, "Could not update your checklist. Please try again.")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Warn("failed to write json response", "error", err)
	}
}
