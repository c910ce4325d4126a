package model

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type House struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// UserProfile binds an account to a house. An account without a profile has
// not finished onboarding.
type UserProfile struct {
	UserID      string    `json:"user_id"`
	HouseID     string    `json:"house_id"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

// HouseMember is a profile joined with its account email.
type HouseMember struct {
	UserProfile
	Email string `json:"email"`
}

// HouseInvite is the key-value record stored under house_invite_{code}.
type HouseInvite struct {
	HouseID    string    `json:"house_id"`
	InviteCode string    `json:"invite_code"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}
