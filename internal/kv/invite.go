package kv

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dukerupert/chorecore/internal/model"
)

// ErrCodeSpace is returned when no unused invite code could be found.
var ErrCodeSpace = errors.New("could not allocate an unused invite code")

const maxCodeAttempts = 20

func inviteKey(code string) string { return "house_invite_" + code }
func houseCodeKey(houseID string) string { return "house_code_" + houseID }

// InviteStore maps six-digit invite codes to houses. Each house has one
// active code; the reverse pointer house_code_{houseId} tracks it.
type InviteStore struct {
	client  *redis.Client
	newCode func() (string, error)
}

func NewInviteStore(client *redis.Client) *InviteStore {
	return &InviteStore{client: client, newCode: randomCode}
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Create allocates a fresh code for houseID and makes it the house's active
// code. Codes are claimed with SET NX so two houses never share one.
func (s *InviteStore) Create(ctx context.Context, houseID, createdBy string) (*model.HouseInvite, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}
		inv := model.HouseInvite{
			HouseID:    houseID,
			InviteCode: code,
			CreatedBy:  createdBy,
			CreatedAt:  time.Now().UTC(),
		}
		data, err := json.Marshal(inv)
		if err != nil {
			return nil, fmt.Errorf("encode invite: %w", err)
		}

		ok, err := s.client.SetNX(ctx, inviteKey(code), data, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("store invite: %w", err)
		}
		if !ok {
			continue
		}
		if err := s.client.Set(ctx, houseCodeKey(houseID), code, 0).Err(); err != nil {
			return nil, fmt.Errorf("store house code: %w", err)
		}
		return &inv, nil
	}
	return nil, ErrCodeSpace
}

// Lookup returns the invite for code, or nil if the code is not active.
func (s *InviteStore) Lookup(ctx context.Context, code string) (*model.HouseInvite, error) {
	var inv model.HouseInvite
	found, err := getJSON(ctx, s.client, inviteKey(code), &inv)
	if err != nil || !found {
		return nil, err
	}
	return &inv, nil
}

// Current returns the house's active invite, or nil if it has none.
func (s *InviteStore) Current(ctx context.Context, houseID string) (*model.HouseInvite, error) {
	code, err := s.client.Get(ctx, houseCodeKey(houseID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get house code: %w", err)
	}
	return s.Lookup(ctx, code)
}

// Rotate replaces the house's active code. The previous code stops working.
func (s *InviteStore) Rotate(ctx context.Context, houseID, createdBy string) (*model.HouseInvite, error) {
	old, err := s.client.Get(ctx, houseCodeKey(houseID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get house code: %w", err)
	}

	inv, err := s.Create(ctx, houseID, createdBy)
	if err != nil {
		return nil, err
	}
	if old != "" && old != inv.InviteCode {
		if err := s.client.Del(ctx, inviteKey(old)).Err(); err != nil {
			return nil, fmt.Errorf("delete old invite: %w", err)
		}
	}
	return inv, nil
}
