package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/chorecore/internal/auth"
	"github.com/dukerupert/chorecore/internal/chore"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &chore.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}, http.StatusBadRequest, "validation_error"},
		{"unauthenticated", auth.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"unprovisioned", auth.ErrUnprovisioned, http.StatusForbidden, "onboarding_required"},
		{"not admin", chore.ErrNotAdmin, http.StatusForbidden, "not_admin"},
		{"not owner", chore.ErrNotOwner, http.StatusForbidden, "not_owner"},
		{"not found", chore.ErrNotFound, http.StatusNotFound, "not_found"},
		{"template missing", chore.ErrTemplateMissing, http.StatusNotFound, "not_found"},
		{"already approved", chore.ErrAlreadyApproved, http.StatusConflict, "already_approved"},
		{"not submitted", chore.ErrNotSubmitted, http.StatusConflict, "not_submitted"},
		{"state changed", fmt.Errorf("toggle: %w", chore.ErrStateChanged), http.StatusConflict, "state_changed"},
		{"no credit target", chore.ErrNoCreditTarget, http.StatusConflict, "no_credit_target"},
		{"storage", errors.New("disk I/O error"), http.StatusInternalServerError, "internal"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, logger, "op", tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["code"] != tt.code {
				t.Errorf("code = %q, want %q", body["code"], tt.code)
			}
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, slog.New(slog.NewTextHandler(io.Discard, nil)), "op", errors.New("secret table name"))

	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "internal server error" {
		t.Errorf("error = %q, want generic message", body["error"])
	}
}

func TestDefaultDisplayName(t *testing.T) {
	tests := []struct {
		name, email, want string
	}{
		{"  Pat ", "pat@example.com", "Pat"},
		{"", "kim.lee@example.com", "kim.lee"},
		{"", "noat", "noat"},
	}
	for _, tt := range tests {
		if got := defaultDisplayName(tt.name, tt.email); got != tt.want {
			t.Errorf("defaultDisplayName(%q, %q) = %q, want %q", tt.name, tt.email, got, tt.want)
		}
	}
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	req := httptest.NewRequest("POST", "/", nil)
	req.Body = io.NopCloser(strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	var v map[string]any
	if decodeJSON(rec, req, &v) {
		t.Fatal("expected decode to fail")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
