package auth

import (
	"context"
	"errors"

	"github.com/dukerupert/chorecore/internal/model"
)

var (
	// ErrUnauthenticated means no valid credential was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnprovisioned means the identity is valid but has not created or
	// joined a house yet.
	ErrUnprovisioned = errors.New("caller has no house")
)

// Identity is the authenticated account behind a request.
type Identity struct {
	UserID string
	Email  string
}

// Caller is the resolved identity plus its house profile. A nil Profile is
// the unprovisioned (onboarding) state.
type Caller struct {
	Identity
	Profile *model.UserProfile
}

func (c Caller) Provisioned() bool {
	return c.Profile != nil
}

func (c Caller) HouseID() string {
	if c.Profile == nil {
		return ""
	}
	return c.Profile.HouseID
}

func (c Caller) IsAdmin() bool {
	return c.Profile != nil && c.Profile.Role == model.RoleAdmin
}

func (c Caller) DisplayName() string {
	if c.Profile == nil {
		return ""
	}
	return c.Profile.DisplayName
}

type contextKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

func FromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(contextKey{}).(Caller)
	return c, ok
}

func HouseID(ctx context.Context) string {
	c, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return c.HouseID()
}

func UserID(ctx context.Context) string {
	c, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return c.UserID
}

func IsAdmin(ctx context.Context) bool {
	c, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return c.IsAdmin()
}
