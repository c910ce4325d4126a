package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/chorecore/internal/auth"
	"github.com/dukerupert/chorecore/internal/model"
	"github.com/dukerupert/chorecore/internal/store"
)

const minPasswordLen = 8

type AuthHandler struct {
	accounts   *store.AccountStore
	tokens     *auth.TokenManager
	logger     *slog.Logger
	bcryptCost int
}

func NewAuthHandler(accounts *store.AccountStore, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:   accounts,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Account   *model.Account `json:"account"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "validation_error", "a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLen {
		writeError(w, http.StatusBadRequest, "validation_error", "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	account, err := h.accounts.Create(r.Context(), req.Email, string(hash))
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "email_taken", "an account with that email already exists")
		return
	}
	if err != nil {
		h.logger.Error("create account", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	h.logger.Info("account registered", "user_id", account.ID)
	h.issue(w, http.StatusCreated, account)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accounts.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect email or password")
		return
	}

	h.issue(w, http.StatusOK, account)
}

func (h *AuthHandler) issue(w http.ResponseWriter, status int, account *model.Account) {
	token, expiresAt, err := h.tokens.Issue(account.ID, account.Email)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	writeJSON(w, status, tokenResponse{Token: token, ExpiresAt: expiresAt, Account: account})
}

// Me reports who the caller is and whether they have joined a house.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":     c.UserID,
		"email":       c.Email,
		"provisioned": c.Provisioned(),
		"profile":     c.Profile,
	})
}
