package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for chore dates and generated ids.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// SuggestedPoints is the default point value shown for a difficulty.
func (d Difficulty) SuggestedPoints() int {
	switch d {
	case DifficultyEasy:
		return 10
	case DifficultyMedium:
		return 25
	case DifficultyHard:
		return 50
	}
	return 0
}

type Recurrence string

const (
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekdays Recurrence = "weekdays"
	RecurrenceWeekends Recurrence = "weekends"
	RecurrenceWeekly   Recurrence = "weekly"
	RecurrenceCustom   Recurrence = "custom"
)

// ChoreStatus is the approval state of a chore instance.
type ChoreStatus string

const (
	StatusIncomplete      ChoreStatus = "incomplete"
	StatusPendingApproval ChoreStatus = "pending_approval"
	StatusCompleted       ChoreStatus = "completed"
)

// ParseChoreStatus rejects anything outside the three known states.
func ParseChoreStatus(s string) (ChoreStatus, error) {
	switch st := ChoreStatus(s); st {
	case StatusIncomplete, StatusPendingApproval, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown chore status %q", s)
}

// RecurringTask is an admin-authored template that generates dated chores.
type RecurringTask struct {
	ID          string     `json:"id"`
	HouseID     string     `json:"house_id"`
	CreatedBy   string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Assignee    string     `json:"assignee"`
	Points      int        `json:"points"`
	Emoji       string     `json:"emoji"`
	ColorTheme  string     `json:"color"`
	Difficulty  Difficulty `json:"difficulty"`
	Recurrence  Recurrence `json:"recurrence"`
	CustomDays  []int      `json:"custom_days"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Chore is a single dated, assignable unit of work.
type Chore struct {
	ID              string      `json:"id"`
	HouseID         string      `json:"house_id"`
	CreatedBy       string      `json:"user_id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Assignee        string      `json:"assignee"`
	Points          int         `json:"points"`
	AwardedPoints   *int        `json:"awarded_points"`
	Emoji           string      `json:"emoji"`
	ColorTheme      string      `json:"color"`
	Difficulty      Difficulty  `json:"difficulty"`
	Date            string      `json:"date"`
	Status          ChoreStatus `json:"status"`
	RecurringTaskID *string     `json:"recurring_task_id"`
	CompletedBy     *string     `json:"completed_by"`
	CompletedAt     *time.Time  `json:"completed_at"`
	ApprovedBy      *string     `json:"approved_by"`
	ApprovedAt      *time.Time  `json:"approved_at"`
	CreatedAt       time.Time   `json:"created_at"`
}

// AssigneeMatches reports whether a chore assignee names one of names. Both
// sides are trimmed and compared with Unicode case folding.
func AssigneeMatches(assignee string, names ...string) bool {
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		return false
	}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" && strings.EqualFold(n, assignee) {
			return true
		}
	}
	return false
}
