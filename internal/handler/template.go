package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorecore/internal/chore"
	"github.com/dukerupert/chorecore/internal/model"
)

type TemplateHandler struct {
	svc    *chore.Service
	logger *slog.Logger
}

func NewTemplateHandler(svc *chore.Service, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{svc: svc, logger: logger}
}

type templateRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Assignee    string           `json:"assignee"`
	Points      int              `json:"points"`
	Emoji       string           `json:"emoji"`
	Color       string           `json:"color"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Recurrence  model.Recurrence `json:"recurrence"`
	CustomDays  []int            `json:"custom_days"`
}

func (req templateRequest) toModel() model.RecurringTask {
	return model.RecurringTask{
		Title:       req.Title,
		Description: req.Description,
		Assignee:    req.Assignee,
		Points:      req.Points,
		Emoji:       req.Emoji,
		ColorTheme:  req.Color,
		Difficulty:  req.Difficulty,
		Recurrence:  req.Recurrence,
		CustomDays:  req.CustomDays,
	}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.ListTemplates(r.Context(), callerFrom(r))
	if err != nil {
		writeServiceError(w, h.logger, "list templates", err)
		return
	}
	if templates == nil {
		templates = []model.RecurringTask{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.svc.CreateTemplate(r.Context(), callerFrom(r), req.toModel())
	if err != nil {
		writeServiceError(w, h.logger, "create template", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := req.toModel()
	in.ID = r.PathValue("id")

	t, err := h.svc.UpdateTemplate(r.Context(), callerFrom(r), in)
	if err != nil {
		writeServiceError(w, h.logger, "update template", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTemplate(r.Context(), callerFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, "delete template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
