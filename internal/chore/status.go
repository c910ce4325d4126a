package chore

import (
	"fmt"

	"github.com/dukerupert/chorecore/internal/auth"
	"github.com/dukerupert/chorecore/internal/model"
)

// NextOnToggle returns the status a toggle moves a chore to. Completed chores
// cannot be toggled.
func NextOnToggle(s model.ChoreStatus) (model.ChoreStatus, error) {
	switch s {
	case model.StatusIncomplete:
		return model.StatusPendingApproval, nil
	case model.StatusPendingApproval:
		return model.StatusIncomplete, nil
	case model.StatusCompleted:
		return "", ErrAlreadyApproved
	default:
		return "", fmt.Errorf("unknown chore status %q", s)
	}
}

// CheckApprovable reports why a chore in status s cannot be approved, or nil.
func CheckApprovable(s model.ChoreStatus) error {
	switch s {
	case model.StatusPendingApproval:
		return nil
	case model.StatusCompleted:
		return ErrAlreadyApproved
	case model.StatusIncomplete:
		return ErrNotSubmitted
	default:
		return fmt.Errorf("unknown chore status %q", s)
	}
}

// CanToggle reports whether the caller may submit or revert c. Admins may
// toggle any chore in their house; members only chores assigned to their
// display name or email.
func CanToggle(caller auth.Caller, c model.Chore) bool {
	if !caller.Provisioned() || caller.HouseID() != c.HouseID {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	return model.AssigneeMatches(c.Assignee, caller.DisplayName(), caller.Email)
}
