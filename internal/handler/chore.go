package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorecore/internal/chore"
	"github.com/dukerupert/chorecore/internal/model"
)

type ChoreHandler struct {
	svc    *chore.Service
	logger *slog.Logger
}

func NewChoreHandler(svc *chore.Service, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{svc: svc, logger: logger}
}

// choreView adds the derived completed flag to a chore.
type choreView struct {
	model.Chore
	Completed bool `json:"completed"`
}

func viewOf(c model.Chore) choreView {
	return choreView{Chore: c, Completed: c.Status == model.StatusCompleted}
}

func viewsOf(chores []model.Chore) []choreView {
	out := make([]choreView, 0, len(chores))
	for _, c := range chores {
		out = append(out, viewOf(c))
	}
	return out
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	chores, err := h.svc.List(r.Context(), callerFrom(r), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, h.logger, "list chores", err)
		return
	}
	writeJSON(w, http.StatusOK, viewsOf(chores))
}

type oneOffRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Assignee    string           `json:"assignee"`
	Points      int              `json:"points"`
	Emoji       string           `json:"emoji"`
	Color       string           `json:"color"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Date        string           `json:"date"`
}

// Create adds a one-off chore that no template produced.
func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req oneOffRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.svc.CreateOneOff(r.Context(), callerFrom(r), model.Chore{
		Title:       req.Title,
		Description: req.Description,
		Assignee:    req.Assignee,
		Points:      req.Points,
		Emoji:       req.Emoji,
		ColorTheme:  req.Color,
		Difficulty:  req.Difficulty,
		Date:        req.Date,
	})
	if err != nil {
		writeServiceError(w, h.logger, "create chore", err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(*c))
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), callerFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, "delete chore", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type generateResponse struct {
	Date             string      `json:"date"`
	Chores           []choreView `json:"chores"`
	AlreadyGenerated bool        `json:"already_generated"`
}

// Generate materializes the house's templates for the requested date. A
// repeat call for the same date answers 200 with already_generated set.
func (h *ChoreHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Generate(r.Context(), callerFrom(r), req.Date)
	if err != nil {
		writeServiceError(w, h.logger, "generate chores", err)
		return
	}

	status := http.StatusCreated
	if res.AlreadyGenerated {
		status = http.StatusOK
	}
	writeJSON(w, status, generateResponse{
		Date:             res.Date,
		Chores:           viewsOf(res.Chores),
		AlreadyGenerated: res.AlreadyGenerated,
	})
}

// Toggle submits the chore for approval, or takes a pending submission back.
func (h *ChoreHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Toggle(r.Context(), callerFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, "toggle chore", err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*c))
}

func (h *ChoreHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AwardedPoints *int `json:"awarded_points"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AwardedPoints == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "awarded_points: is required",
			"code":  "validation_error",
			"field": "awarded_points",
		})
		return
	}

	res, err := h.svc.Approve(r.Context(), callerFrom(r), r.PathValue("id"), *req.AwardedPoints)
	if err != nil {
		writeServiceError(w, h.logger, "approve chore", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"chore":            viewOf(res.Chore),
		"credited_user_id": res.CreditedUserID,
		"balance":          res.Balance,
	})
}

// Pending lists chores waiting for an admin's approval.
func (h *ChoreHandler) Pending(w http.ResponseWriter, r *http.Request) {
	chores, err := h.svc.ListPending(r.Context(), callerFrom(r))
	if err != nil {
		writeServiceError(w, h.logger, "list pending chores", err)
		return
	}
	writeJSON(w, http.StatusOK, viewsOf(chores))
}
