package chore

import (
	"context"
	"log/slog"

	"github.com/dukerupert/chorecore/internal/auth"
	"github.com/dukerupert/chorecore/internal/events"
	"github.com/dukerupert/chorecore/internal/model"
)

type TemplateRepository interface {
	Create(ctx context.Context, t model.RecurringTask) (*model.RecurringTask, error)
	GetByID(ctx context.Context, id string) (*model.RecurringTask, error)
	ListByHouse(ctx context.Context, houseID string) ([]model.RecurringTask, error)
	Update(ctx context.Context, t model.RecurringTask) (*model.RecurringTask, error)
	Delete(ctx context.Context, houseID, id string) error
}

type ChoreRepository interface {
	Create(ctx context.Context, c model.Chore) (*model.Chore, error)
	GetByID(ctx context.Context, id string) (*model.Chore, error)
	ListByHouse(ctx context.Context, houseID, date string) ([]model.Chore, error)
	ListPending(ctx context.Context, houseID string) ([]model.Chore, error)
	InsertGenerated(ctx context.Context, houseID, date, userID string, chores []model.Chore) ([]model.Chore, bool, error)
	Submit(ctx context.Context, id, userID string) (*model.Chore, error)
	Revert(ctx context.Context, id string) (*model.Chore, error)
	Approve(ctx context.Context, id, approverID string, awarded int, creditUserID string) (*model.Chore, int, error)
	Delete(ctx context.Context, houseID, id string) (bool, error)
}

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*model.UserProfile, error)
	FindByAssignee(ctx context.Context, houseID, assignee string) (*model.UserProfile, error)
}

// Service runs chore generation and the approval workflow for a house.
type Service struct {
	templates TemplateRepository
	chores    ChoreRepository
	profiles  ProfileRepository
	events    events.Publisher
	logger    *slog.Logger
}

func NewService(templates TemplateRepository, chores ChoreRepository, profiles ProfileRepository, pub events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		templates: templates,
		chores:    chores,
		profiles:  profiles,
		events:    pub,
		logger:    logger,
	}
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn("publish event failed", "type", string(e.Type), "house_id", e.HouseID, "error", err)
	}
}

func requireHouse(caller auth.Caller) error {
	if !caller.Provisioned() {
		return auth.ErrUnprovisioned
	}
	return nil
}

func requireAdmin(caller auth.Caller) error {
	if err := requireHouse(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}
