package chore

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/chorecore/internal/auth"
	"github.com/dukerupert/chorecore/internal/events"
	"github.com/dukerupert/chorecore/internal/model"
	"github.com/dukerupert/chorecore/internal/recurrence"
)

// GenerateResult is the outcome of generating chores for a date. When
// AlreadyGenerated is set, Chores holds the house's existing chores for the
// date and nothing was written.
type GenerateResult struct {
	Date             string        `json:"date"`
	Chores           []model.Chore `json:"chores"`
	AlreadyGenerated bool          `json:"already_generated"`
}

// GeneratedID is the id of the chore a template produces on date.
func GeneratedID(templateID string, date time.Time) string {
	return templateID + "-" + date.Format(model.DateLayout)
}

// Plan builds the chores the templates produce on date for caller without
// touching storage.
func Plan(templates []model.RecurringTask, caller auth.Caller, date time.Time) []model.Chore {
	day := date.Format(model.DateLayout)
	var out []model.Chore
	for _, t := range templates {
		if !recurrence.AppliesOn(t, date) {
			continue
		}
		templateID := t.ID
		out = append(out, model.Chore{
			ID:              GeneratedID(t.ID, date),
			HouseID:         caller.HouseID(),
			CreatedBy:       caller.UserID,
			Title:           t.Title,
			Description:     t.Description,
			Assignee:        t.Assignee,
			Points:          t.Points,
			Emoji:           t.Emoji,
			ColorTheme:      t.ColorTheme,
			Difficulty:      t.Difficulty,
			Date:            day,
			Status:          model.StatusIncomplete,
			RecurringTaskID: &templateID,
		})
	}
	return out
}

// Generate materializes the house's templates into chores for date. It runs
// at most once per house and date: once any member has generated the date,
// later calls write nothing and return the house's chores for that day. A
// date on which no template applies is not recorded, so templates added
// later still generate for it.
func (s *Service) Generate(ctx context.Context, caller auth.Caller, date string) (*GenerateResult, error) {
	if err := requireHouse(caller); err != nil {
		return nil, err
	}
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, invalid("date", "must be YYYY-MM-DD")
	}
	date = day.Format(model.DateLayout)

	templates, err := s.templates.ListByHouse(ctx, caller.HouseID())
	if err != nil {
		return nil, err
	}

	planned := Plan(templates, caller, day)
	if len(planned) == 0 {
		return &GenerateResult{Date: date, Chores: []model.Chore{}}, nil
	}

	inserted, fresh, err := s.chores.InsertGenerated(ctx, caller.HouseID(), date, caller.UserID, planned)
	if err != nil {
		return nil, fmt.Errorf("generate chores for %s: %w", date, err)
	}
	if !fresh {
		existing, err := s.chores.ListByHouse(ctx, caller.HouseID(), date)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			existing = []model.Chore{}
		}
		return &GenerateResult{Date: date, Chores: existing, AlreadyGenerated: true}, nil
	}

	s.logger.Debug("chores generated",
		"house_id", caller.HouseID(),
		"user_id", caller.UserID,
		"date", date,
		"templates", len(templates),
		"inserted", len(inserted),
	)

	if len(inserted) > 0 {
		e := events.New(events.ChoresGenerated, caller.HouseID(), caller.UserID)
		e.Date = date
		for _, c := range inserted {
			e.ChoreIDs = append(e.ChoreIDs, c.ID)
		}
		s.publish(ctx, e)
	}

	return &GenerateResult{Date: date, Chores: inserted}, nil
}
