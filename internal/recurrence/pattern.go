// Package recurrence decides which calendar dates a recurring task applies to.
package recurrence

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dukerupert/chorecore/internal/model"
)

var kinds = map[string]model.Recurrence{
	"daily":    model.RecurrenceDaily,
	"weekdays": model.RecurrenceWeekdays,
	"weekends": model.RecurrenceWeekends,
	"weekly":   model.RecurrenceWeekly,
	"custom":   model.RecurrenceCustom,
}

// WeeklyAnchor is the fixed day "weekly" templates fall on.
const WeeklyAnchor = time.Monday

// Parse validates a recurrence name. Templates are checked with Parse when they
// are written, so AppliesOn only ever sees known values in practice.
func Parse(s string) (model.Recurrence, error) {
	r, ok := kinds[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown recurrence: %q", s)
	}
	return r, nil
}

// NormalizeDays checks the custom day set for a recurrence and returns it
// sorted and de-duplicated. Non-custom recurrences carry no days.
func NormalizeDays(r model.Recurrence, days []int) ([]int, error) {
	if r != model.RecurrenceCustom {
		return nil, nil
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("custom recurrence requires at least one day")
	}

	seen := make(map[int]bool, len(days))
	var out []int
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("invalid weekday index: %d", d)
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out, nil
}

// AppliesOn reports whether the template produces a chore on date. Only the
// weekday of date is consulted. Unknown recurrence values and a custom
// recurrence without days never apply.
func AppliesOn(task model.RecurringTask, date time.Time) bool {
	day := date.Weekday()

	switch task.Recurrence {
	case model.RecurrenceDaily:
		return true
	case model.RecurrenceWeekdays:
		return day >= time.Monday && day <= time.Friday
	case model.RecurrenceWeekends:
		return day == time.Saturday || day == time.Sunday
	case model.RecurrenceWeekly:
		return day == WeeklyAnchor
	case model.RecurrenceCustom:
		for _, d := range task.CustomDays {
			if time.Weekday(d) == day {
				return true
			}
		}
		return false
	}
	return false
}

// Describe returns a human-readable description of the recurrence.
func Describe(r model.Recurrence, days []int) string {
	switch r {
	case model.RecurrenceDaily:
		return "Every day"
	case model.RecurrenceWeekdays:
		return "Every weekday"
	case model.RecurrenceWeekends:
		return "Every weekend"
	case model.RecurrenceWeekly:
		return "Weekly on " + WeeklyAnchor.String()
	case model.RecurrenceCustom:
		if len(days) == 0 {
			return "Never"
		}
		var names []string
		for _, d := range days {
			if d < 0 || d > 6 {
				continue
			}
			names = append(names, time.Weekday(d).String()[:3])
		}
		return strings.Join(names, ", ")
	}
	return ""
}
