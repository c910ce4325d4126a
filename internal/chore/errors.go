package chore

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("chore not found")
	ErrNotOwner        = errors.New("chore is not assigned to you")
	ErrAlreadyApproved = errors.New("chore has already been approved")
	ErrNotAdmin        = errors.New("only an admin can do that")
	ErrNotSubmitted    = errors.New("chore has not been submitted for approval")
	ErrStateChanged    = errors.New("chore was changed by someone else")
	ErrNoCreditTarget  = errors.New("no house member matches the chore's assignee")
	ErrTemplateMissing = errors.New("recurring task not found")
)

// ValidationError reports a malformed template or chore field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
