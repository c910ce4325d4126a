package auth

import (
	"context"
	"testing"

	"github.com/dukerupert/chorecore/internal/model"
)

func TestWithCallerAndFromContext(t *testing.T) {
	c := Caller{
		Identity: Identity{UserID: "u1", Email: "alex@example.com"},
		Profile:  &model.UserProfile{UserID: "u1", HouseID: "h1", DisplayName: "Alex", Role: model.RoleAdmin},
	}

	ctx := WithCaller(context.Background(), c)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected Caller in context")
	}
	if got.UserID != "u1" {
		t.Errorf("UserID = %q, want %q", got.UserID, "u1")
	}
	if got.HouseID() != "h1" {
		t.Errorf("HouseID = %q, want %q", got.HouseID(), "h1")
	}
	if got.DisplayName() != "Alex" {
		t.Errorf("DisplayName = %q, want %q", got.DisplayName(), "Alex")
	}
	if !got.Provisioned() {
		t.Error("expected provisioned caller")
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing Caller")
	}
}

func TestUnprovisionedCaller(t *testing.T) {
	c := Caller{Identity: Identity{UserID: "u1"}}
	if c.Provisioned() {
		t.Error("expected unprovisioned caller")
	}
	if c.HouseID() != "" {
		t.Errorf("HouseID = %q, want empty", c.HouseID())
	}
	if c.IsAdmin() {
		t.Error("unprovisioned caller must not be admin")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := WithCaller(context.Background(), Caller{
		Identity: Identity{UserID: "u7"},
		Profile:  &model.UserProfile{HouseID: "h42", Role: model.RoleMember},
	})
	if HouseID(ctx) != "h42" {
		t.Errorf("HouseID = %q, want h42", HouseID(ctx))
	}
	if UserID(ctx) != "u7" {
		t.Errorf("UserID = %q, want u7", UserID(ctx))
	}
	if IsAdmin(ctx) {
		t.Error("expected IsAdmin = false for member role")
	}
}

func TestContextHelpersMissing(t *testing.T) {
	ctx := context.Background()
	if HouseID(ctx) != "" {
		t.Error("expected empty house for missing context")
	}
	if UserID(ctx) != "" {
		t.Error("expected empty user for missing context")
	}
	if IsAdmin(ctx) {
		t.Error("expected IsAdmin = false for missing context")
	}
}

func TestIsAdmin(t *testing.T) {
	ctx := WithCaller(context.Background(), Caller{Profile: &model.UserProfile{Role: model.RoleAdmin}})
	if !IsAdmin(ctx) {
		t.Error("expected IsAdmin = true for admin role")
	}
}
