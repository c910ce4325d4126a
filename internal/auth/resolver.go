package auth

import (
	"context"
	"fmt"

	"github.com/dukerupert/chorecore/internal/model"
)

// ProfileLookup returns the house profile for an account, or nil when the
// account has not been provisioned.
type ProfileLookup interface {
	Get(ctx context.Context, userID string) (*model.UserProfile, error)
}

// Resolver turns a bearer token into a Caller.
type Resolver struct {
	tokens   *TokenManager
	profiles ProfileLookup
}

func NewResolver(tokens *TokenManager, profiles ProfileLookup) *Resolver {
	return &Resolver{tokens: tokens, profiles: profiles}
}

// Resolve validates token and loads the caller's profile. An invalid token
// yields ErrUnauthenticated; a valid token without a profile yields a Caller
// with a nil Profile.
func (r *Resolver) Resolve(ctx context.Context, token string) (Caller, error) {
	if token == "" {
		return Caller{}, ErrUnauthenticated
	}
	id, err := r.tokens.Validate(token)
	if err != nil {
		return Caller{}, err
	}

	profile, err := r.profiles.Get(ctx, id.UserID)
	if err != nil {
		return Caller{}, fmt.Errorf("load profile: %w", err)
	}
	return Caller{Identity: id, Profile: profile}, nil
}
