package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorecore/internal/events"
	"github.com/dukerupert/chorecore/internal/kv"
	"github.com/dukerupert/chorecore/internal/model"
	"github.com/dukerupert/chorecore/internal/store"
)

type RewardHandler struct {
	rewards  *kv.RewardStore
	claims   *kv.ClaimStore
	profiles *store.ProfileStore
	events   events.Publisher
	logger   *slog.Logger
}

func NewRewardHandler(rs *kv.RewardStore, cs *kv.ClaimStore, ps *store.ProfileStore, pub events.Publisher, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{rewards: rs, claims: cs, profiles: ps, events: pub, logger: logger}
}

type rewardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Emoji       string `json:"emoji"`
	Color       string `json:"color"`
}

func (req *rewardRequest) validate(w http.ResponseWriter) bool {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "title is required")
		return false
	}
	if req.Cost < 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "cost must be >= 0")
		return false
	}
	return true
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.rewards.List(r.Context(), callerFrom(r).HouseID())
	if err != nil {
		h.logger.Error("list rewards", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if rewards == nil {
		rewards = []model.Reward{}
	}
	writeJSON(w, http.StatusOK, rewards)
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if !decodeJSON(w, r, &req) || !req.validate(w) {
		return
	}

	c := callerFrom(r)
	reward, err := h.rewards.Create(r.Context(), model.Reward{
		HouseID:     c.HouseID(),
		Title:       req.Title,
		Description: req.Description,
		Cost:        req.Cost,
		Emoji:       req.Emoji,
		ColorTheme:  req.Color,
		CreatedBy:   c.UserID,
	})
	if err != nil {
		h.logger.Error("create reward", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, reward)
}

func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if !decodeJSON(w, r, &req) || !req.validate(w) {
		return
	}

	reward, err := h.rewards.Update(r.Context(), model.Reward{
		ID:          r.PathValue("id"),
		HouseID:     callerFrom(r).HouseID(),
		Title:       req.Title,
		Description: req.Description,
		Cost:        req.Cost,
		Emoji:       req.Emoji,
		ColorTheme:  req.Color,
	})
	if err != nil {
		h.logger.Error("update reward", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if reward == nil {
		writeError(w, http.StatusNotFound, "not_found", "reward not found")
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ok, err := h.rewards.Delete(r.Context(), callerFrom(r).HouseID(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("delete reward", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "reward not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Claim spends the caller's points on a reward. The debit only happens when
// the balance covers the cost; if the claim cannot be recorded afterwards the
// points are credited back.
func (h *RewardHandler) Claim(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	ctx := r.Context()

	reward, err := h.rewards.Get(ctx, c.HouseID(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("get reward", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if reward == nil {
		writeError(w, http.StatusNotFound, "not_found", "reward not found")
		return
	}

	balance, ok, err := h.profiles.DebitPoints(ctx, c.UserID, reward.Cost)
	if err != nil {
		h.logger.Error("debit points", "user_id", c.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "insufficient_points", "not enough points for this reward")
		return
	}

	claim, err := h.claims.Record(ctx, c.HouseID(), c.UserID, *reward)
	if err != nil {
		h.logger.Error("record claim", "user_id", c.UserID, "reward_id", reward.ID, "error", err)
		if _, cerr := h.profiles.CreditPoints(ctx, c.UserID, reward.Cost); cerr != nil {
			h.logger.Error("refund points", "user_id", c.UserID, "amount", reward.Cost, "error", cerr)
		}
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	e := events.New(events.RewardClaimed, c.HouseID(), c.UserID)
	e.Points = reward.Cost
	if err := h.events.Publish(ctx, e); err != nil {
		h.logger.Warn("publish event failed", "type", string(e.Type), "error", err)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"claim":   claim,
		"balance": balance,
	})
}

// Claims lists the caller's redeemed rewards.
func (h *RewardHandler) Claims(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	claims, err := h.claims.ListByUser(r.Context(), c.HouseID(), c.UserID)
	if err != nil {
		h.logger.Error("list claims", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if claims == nil {
		claims = []model.RewardClaim{}
	}
	writeJSON(w, http.StatusOK, claims)
}
