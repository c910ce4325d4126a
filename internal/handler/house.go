package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorecore/internal/kv"
	"github.com/dukerupert/chorecore/internal/model"
	"github.com/dukerupert/chorecore/internal/store"
)

type HouseHandler struct {
	houses   *store.HouseStore
	profiles *store.ProfileStore
	invites  *kv.InviteStore
	logger   *slog.Logger
}

func NewHouseHandler(hs *store.HouseStore, ps *store.ProfileStore, invites *kv.InviteStore, logger *slog.Logger) *HouseHandler {
	return &HouseHandler{houses: hs, profiles: ps, invites: invites, logger: logger}
}

type houseResponse struct {
	House      *model.House       `json:"house"`
	Profile    *model.UserProfile `json:"profile"`
	InviteCode string             `json:"invite_code,omitempty"`
}

// defaultDisplayName falls back to the local part of the account email.
func defaultDisplayName(name, email string) string {
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

// Create makes a new house with the caller as its admin and allocates the
// house's first invite code.
func (h *HouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	if c.Provisioned() {
		writeError(w, http.StatusConflict, "already_member", "you already belong to a house")
		return
	}

	var req struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}

	house, profile, err := h.houses.CreateWithAdmin(r.Context(), req.Name, c.UserID, defaultDisplayName(req.DisplayName, c.Email))
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "already_member", "you already belong to a house")
		return
	}
	if err != nil {
		h.logger.Error("create house", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	resp := houseResponse{House: house, Profile: profile}
	inv, err := h.invites.Create(r.Context(), house.ID, c.UserID)
	if err != nil {
		// The house is usable without a code; the admin can rotate one later.
		h.logger.Error("create invite code", "house_id", house.ID, "error", err)
	} else {
		resp.InviteCode = inv.InviteCode
	}

	h.logger.Info("house created", "house_id", house.ID, "user_id", c.UserID)
	writeJSON(w, http.StatusCreated, resp)
}

// Join adds the caller to the house behind an invite code as a member.
func (h *HouseHandler) Join(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	if c.Provisioned() {
		writeError(w, http.StatusConflict, "already_member", "you already belong to a house")
		return
	}

	var req struct {
		InviteCode  string `json:"invite_code"`
		DisplayName string `json:"display_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	inv, err := h.invites.Lookup(r.Context(), strings.TrimSpace(req.InviteCode))
	if err != nil {
		h.logger.Error("lookup invite", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if inv == nil {
		writeError(w, http.StatusNotFound, "invalid_invite", "invite code not found")
		return
	}

	house, err := h.houses.GetByID(r.Context(), inv.HouseID)
	if err != nil {
		h.logger.Error("get house", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if house == nil {
		writeError(w, http.StatusNotFound, "invalid_invite", "invite code not found")
		return
	}

	profile, err := h.profiles.Create(r.Context(), c.UserID, house.ID, defaultDisplayName(req.DisplayName, c.Email), model.RoleMember)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "already_member", "you already belong to a house")
		return
	}
	if err != nil {
		h.logger.Error("join house", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	h.logger.Info("house joined", "house_id", house.ID, "user_id", c.UserID)
	writeJSON(w, http.StatusCreated, houseResponse{House: house, Profile: profile})
}

// ByCode reports whether an invite code is active and which house it opens.
func (h *HouseHandler) ByCode(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invites.Lookup(r.Context(), r.PathValue("code"))
	if err != nil {
		h.logger.Error("lookup invite", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if inv == nil {
		writeJSON(w, http.StatusOK, map[string]any{"valid": false})
		return
	}

	house, err := h.houses.GetByID(r.Context(), inv.HouseID)
	if err != nil {
		h.logger.Error("get house", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if house == nil {
		writeJSON(w, http.StatusOK, map[string]any{"valid": false})
		return
	}

	count, err := h.houses.CountMembers(r.Context(), house.ID)
	if err != nil {
		h.logger.Error("count members", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":        true,
		"house_id":     house.ID,
		"house_name":   house.Name,
		"member_count": count,
	})
}

func (h *HouseHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.profiles.ListMembers(r.Context(), callerFrom(r).HouseID())
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if members == nil {
		members = []model.HouseMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

// RotateInvite replaces the house's invite code.
func (h *HouseHandler) RotateInvite(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	inv, err := h.invites.Rotate(r.Context(), c.HouseID(), c.UserID)
	if err != nil {
		h.logger.Error("rotate invite", "house_id", c.HouseID(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, inv)
}
