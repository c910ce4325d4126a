package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dukerupert/chorecore/internal/model"
)

func claimKey(houseID, userID, claimID string) string {
	return "claim_" + houseID + "_" + userID + "_" + claimID
}

// ClaimStore is the ledger of redeemed rewards.
type ClaimStore struct {
	client *redis.Client
}

func NewClaimStore(client *redis.Client) *ClaimStore {
	return &ClaimStore{client: client}
}

// Record writes a claim of reward by userID.
func (s *ClaimStore) Record(ctx context.Context, houseID, userID string, reward model.Reward) (*model.RewardClaim, error) {
	c := model.RewardClaim{
		ID:          uuid.NewString(),
		UserID:      userID,
		RewardID:    reward.ID,
		RewardTitle: reward.Title,
		PointsSpent: reward.Cost,
		ClaimedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode claim: %w", err)
	}
	if err := s.client.Set(ctx, claimKey(houseID, userID, c.ID), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("store claim: %w", err)
	}
	return &c, nil
}

// ListByUser returns the user's claims in the house, newest first.
func (s *ClaimStore) ListByUser(ctx context.Context, houseID, userID string) ([]model.RewardClaim, error) {
	keys, err := scanKeys(ctx, s.client, claimKey(houseID, userID, "*"))
	if err != nil {
		return nil, err
	}
	var claims []model.RewardClaim
	err = getAllJSON(ctx, s.client, keys, func(data []byte) error {
		var c model.RewardClaim
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		claims = append(claims, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(claims, func(i, j int) bool {
		return claims[i].ClaimedAt.After(claims[j].ClaimedAt)
	})
	return claims, nil
}
