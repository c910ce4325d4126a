package model

import "time"

type Reward struct {
	ID          string     `json:"id"`
	HouseID     string     `json:"house_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Cost        int        `json:"cost"`
	Emoji       string     `json:"emoji"`
	ColorTheme  string     `json:"color"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type RewardClaim struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	RewardID    string    `json:"reward_id"`
	RewardTitle string    `json:"reward_title"`
	PointsSpent int       `json:"points_spent"`
	ClaimedAt   time.Time `json:"claimed_at"`
}
