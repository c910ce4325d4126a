package chore

import (
	"strings"

	"github.com/dukerupert/chorecore/internal/model"
	"github.com/dukerupert/chorecore/internal/recurrence"
)

// NormalizeTemplate checks a template before it is written and fills in
// defaults. Points of zero take the difficulty's suggested value.
func NormalizeTemplate(t model.RecurringTask) (model.RecurringTask, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return t, invalid("title", "is required")
	}
	t.Assignee = strings.TrimSpace(t.Assignee)

	points, err := normalizePoints(t.Difficulty, t.Points)
	if err != nil {
		return t, err
	}
	t.Points = points

	r, err := recurrence.Parse(string(t.Recurrence))
	if err != nil {
		return t, invalid("recurrence", "%v", err)
	}
	t.Recurrence = r

	days, err := recurrence.NormalizeDays(r, t.CustomDays)
	if err != nil {
		return t, invalid("custom_days", "%v", err)
	}
	t.CustomDays = days
	return t, nil
}

// NormalizeOneOff checks an admin-created chore before it is written.
func NormalizeOneOff(c model.Chore) (model.Chore, error) {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return c, invalid("title", "is required")
	}
	c.Assignee = strings.TrimSpace(c.Assignee)

	points, err := normalizePoints(c.Difficulty, c.Points)
	if err != nil {
		return c, err
	}
	c.Points = points

	if _, err := model.ParseDate(c.Date); err != nil {
		return c, invalid("date", "must be YYYY-MM-DD")
	}
	return c, nil
}

func normalizePoints(d model.Difficulty, points int) (int, error) {
	if !d.Valid() {
		return 0, invalid("difficulty", "must be easy, medium, or hard")
	}
	if points < 0 {
		return 0, invalid("points", "must be positive")
	}
	if points == 0 {
		return d.SuggestedPoints(), nil
	}
	return points, nil
}
