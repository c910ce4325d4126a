package chore

import (
	"context"

	"github.com/dukerupert/chorecore/internal/auth"
	"github.com/dukerupert/chorecore/internal/model"
)

func (s *Service) ListTemplates(ctx context.Context, caller auth.Caller) ([]model.RecurringTask, error) {
	if err := requireHouse(caller); err != nil {
		return nil, err
	}
	return s.templates.ListByHouse(ctx, caller.HouseID())
}

func (s *Service) CreateTemplate(ctx context.Context, caller auth.Caller, t model.RecurringTask) (*model.RecurringTask, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	t, err := NormalizeTemplate(t)
	if err != nil {
		return nil, err
	}
	t.HouseID = caller.HouseID()
	t.CreatedBy = caller.UserID
	return s.templates.Create(ctx, t)
}

// UpdateTemplate edits a template in place. Chores already generated from it
// keep their copied fields.
func (s *Service) UpdateTemplate(ctx context.Context, caller auth.Caller, t model.RecurringTask) (*model.RecurringTask, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	existing, err := s.templates.GetByID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.HouseID != caller.HouseID() {
		return nil, ErrTemplateMissing
	}

	t, err = NormalizeTemplate(t)
	if err != nil {
		return nil, err
	}
	t.HouseID = existing.HouseID
	t.CreatedBy = existing.CreatedBy
	return s.templates.Update(ctx, t)
}

// DeleteTemplate removes a template. Chores already generated from it remain.
func (s *Service) DeleteTemplate(ctx context.Context, caller auth.Caller, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	existing, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil || existing.HouseID != caller.HouseID() {
		return ErrTemplateMissing
	}
	return s.templates.Delete(ctx, caller.HouseID(), id)
}
