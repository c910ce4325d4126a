// Package events publishes chore lifecycle notifications for downstream
// consumers. Publishing happens after the state change has been committed.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	ChoresGenerated Type = "chores.generated"
	ChoreSubmitted  Type = "chore.submitted"
	ChoreReverted   Type = "chore.reverted"
	ChoreApproved   Type = "chore.approved"
	RewardClaimed   Type = "reward.claimed"
)

type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	HouseID    string    `json:"house_id"`
	UserID     string    `json:"user_id"`
	ChoreIDs   []string  `json:"chore_ids,omitempty"`
	Date       string    `json:"date,omitempty"`
	Points     int       `json:"points,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps an event with a fresh id and the current time.
func New(t Type, houseID, userID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		HouseID:    houseID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// LogPublisher writes events to the log. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.logger.Info("event",
		"id", e.ID,
		"type", string(e.Type),
		"house_id", e.HouseID,
		"user_id", e.UserID,
		"chores", len(e.ChoreIDs),
		"points", e.Points,
	)
	return nil
}
