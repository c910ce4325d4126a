package chore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/chorecore/internal/auth"
	"github.com/dukerupert/chorecore/internal/events"
	"github.com/dukerupert/chorecore/internal/model"
	"github.com/dukerupert/chorecore/internal/store"
)

// ApproveResult reports an approval and whose balance was credited.
type ApproveResult struct {
	Chore          model.Chore `json:"chore"`
	CreditedUserID string      `json:"credited_user_id"`
	Balance        int         `json:"balance"`
}

// get loads a chore visible to the caller's house.
func (s *Service) get(ctx context.Context, caller auth.Caller, id string) (*model.Chore, error) {
	c, err := s.chores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.HouseID != caller.HouseID() {
		return nil, ErrNotFound
	}
	return c, nil
}

// Toggle submits an incomplete chore for approval or reverts a pending one.
// Completed chores are rejected with ErrAlreadyApproved and left untouched.
func (s *Service) Toggle(ctx context.Context, caller auth.Caller, id string) (*model.Chore, error) {
	if err := requireHouse(caller); err != nil {
		return nil, err
	}
	c, err := s.get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	next, err := NextOnToggle(c.Status)
	if err != nil {
		return nil, err
	}
	if !CanToggle(caller, *c) {
		return nil, ErrNotOwner
	}

	var updated *model.Chore
	var eventType events.Type
	switch next {
	case model.StatusPendingApproval:
		updated, err = s.chores.Submit(ctx, c.ID, caller.UserID)
		eventType = events.ChoreSubmitted
	case model.StatusIncomplete:
		updated, err = s.chores.Revert(ctx, c.ID)
		eventType = events.ChoreReverted
	default:
		return nil, fmt.Errorf("unexpected toggle target %q", next)
	}
	if errors.Is(err, store.ErrStale) {
		return nil, ErrStateChanged
	}
	if err != nil {
		return nil, err
	}

	e := events.New(eventType, c.HouseID, caller.UserID)
	e.ChoreIDs = []string{c.ID}
	s.publish(ctx, e)
	return updated, nil
}

// Approve completes a pending chore, awarding points to the assignee. The
// chore update and the points credit commit together or not at all.
func (s *Service) Approve(ctx context.Context, caller auth.Caller, id string, awarded int) (*ApproveResult, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if awarded < 0 {
		return nil, invalid("awarded_points", "must not be negative")
	}
	c, err := s.get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := CheckApprovable(c.Status); err != nil {
		return nil, err
	}

	target, err := s.creditTarget(ctx, *c)
	if err != nil {
		return nil, err
	}

	approved, balance, err := s.chores.Approve(ctx, c.ID, caller.UserID, awarded, target.UserID)
	if errors.Is(err, store.ErrStale) {
		return nil, ErrStateChanged
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("chore approved",
		"chore_id", c.ID,
		"house_id", c.HouseID,
		"awarded", awarded,
		"credited_user_id", target.UserID,
	)

	e := events.New(events.ChoreApproved, c.HouseID, target.UserID)
	e.ChoreIDs = []string{c.ID}
	e.Points = awarded
	s.publish(ctx, e)

	return &ApproveResult{Chore: *approved, CreditedUserID: target.UserID, Balance: balance}, nil
}

// creditTarget picks the profile that receives a chore's points: the house
// member matching the assignee, otherwise whoever submitted it.
func (s *Service) creditTarget(ctx context.Context, c model.Chore) (*model.UserProfile, error) {
	p, err := s.profiles.FindByAssignee(ctx, c.HouseID, c.Assignee)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	if c.CompletedBy != nil {
		p, err := s.profiles.Get(ctx, *c.CompletedBy)
		if err != nil {
			return nil, err
		}
		if p != nil && p.HouseID == c.HouseID {
			return p, nil
		}
	}
	return nil, ErrNoCreditTarget
}

// List returns the house's chores, optionally for a single date.
func (s *Service) List(ctx context.Context, caller auth.Caller, date string) ([]model.Chore, error) {
	if err := requireHouse(caller); err != nil {
		return nil, err
	}
	if date != "" {
		if _, err := model.ParseDate(date); err != nil {
			return nil, invalid("date", "must be YYYY-MM-DD")
		}
	}
	return s.chores.ListByHouse(ctx, caller.HouseID(), date)
}

// ListPending returns the house's approval queue.
func (s *Service) ListPending(ctx context.Context, caller auth.Caller) ([]model.Chore, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.chores.ListPending(ctx, caller.HouseID())
}

// CreateOneOff adds an admin-authored chore with no template behind it.
func (s *Service) CreateOneOff(ctx context.Context, caller auth.Caller, c model.Chore) (*model.Chore, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	c, err := NormalizeOneOff(c)
	if err != nil {
		return nil, err
	}
	c.HouseID = caller.HouseID()
	c.CreatedBy = caller.UserID
	return s.chores.Create(ctx, c)
}

// Delete removes a chore from the caller's house.
func (s *Service) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	ok, err := s.chores.Delete(ctx, caller.HouseID(), id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
