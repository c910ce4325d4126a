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

func rewardKey(houseID, rewardID string) string { return "reward_" + houseID + "_" + rewardID }

// RewardStore holds each house's reward catalog.
type RewardStore struct {
	client *redis.Client
}

func NewRewardStore(client *redis.Client) *RewardStore {
	return &RewardStore{client: client}
}

func (s *RewardStore) put(ctx context.Context, r model.Reward) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode reward: %w", err)
	}
	if err := s.client.Set(ctx, rewardKey(r.HouseID, r.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("store reward: %w", err)
	}
	return nil
}

func (s *RewardStore) Create(ctx context.Context, r model.Reward) (*model.Reward, error) {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = nil
	if err := s.put(ctx, r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Get returns the reward, or nil if the house has no reward with that id.
func (s *RewardStore) Get(ctx context.Context, houseID, rewardID string) (*model.Reward, error) {
	var r model.Reward
	found, err := getJSON(ctx, s.client, rewardKey(houseID, rewardID), &r)
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}

// Update overwrites the editable fields of an existing reward. It returns nil
// if the reward does not exist.
func (s *RewardStore) Update(ctx context.Context, r model.Reward) (*model.Reward, error) {
	existing, err := s.Get(ctx, r.HouseID, r.ID)
	if err != nil || existing == nil {
		return nil, err
	}
	now := time.Now().UTC()
	existing.Title = r.Title
	existing.Description = r.Description
	existing.Cost = r.Cost
	existing.Emoji = r.Emoji
	existing.ColorTheme = r.ColorTheme
	existing.UpdatedAt = &now
	if err := s.put(ctx, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a reward and reports whether it existed.
func (s *RewardStore) Delete(ctx context.Context, houseID, rewardID string) (bool, error) {
	n, err := s.client.Del(ctx, rewardKey(houseID, rewardID)).Result()
	if err != nil {
		return false, fmt.Errorf("delete reward: %w", err)
	}
	return n > 0, nil
}

// List returns the house's rewards, cheapest first.
func (s *RewardStore) List(ctx context.Context, houseID string) ([]model.Reward, error) {
	keys, err := scanKeys(ctx, s.client, rewardKey(houseID, "*"))
	if err != nil {
		return nil, err
	}
	var rewards []model.Reward
	err = getAllJSON(ctx, s.client, keys, func(data []byte) error {
		var r model.Reward
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		rewards = append(rewards, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rewards, func(i, j int) bool {
		if rewards[i].Cost != rewards[j].Cost {
			return rewards[i].Cost < rewards[j].Cost
		}
		return rewards[i].Title < rewards[j].Title
	})
	return rewards, nil
}
