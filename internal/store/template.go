package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukerupert/chorecore/internal/model"
)

// TemplateStore persists recurring task templates.
type TemplateStore struct {
	db *sql.DB
}

func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func scanTemplate(scanner interface{ Scan(...any) error }) (*model.RecurringTask, error) {
	var t model.RecurringTask
	var days string
	err := scanner.Scan(
		&t.ID, &t.HouseID, &t.CreatedBy, &t.Title, &t.Description, &t.Assignee,
		&t.Points, &t.Emoji, &t.ColorTheme, &t.Difficulty, &t.Recurrence, &days,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(days), &t.CustomDays); err != nil {
		return nil, fmt.Errorf("decode custom days: %w", err)
	}
	if len(t.CustomDays) == 0 {
		t.CustomDays = nil
	}
	return &t, nil
}

const templateCols = `id, house_id, user_id, title, description, assignee, points, emoji, color, difficulty, recurrence, custom_days, created_at, updated_at`

func encodeDays(days []int) (string, error) {
	if len(days) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("encode custom days: %w", err)
	}
	return string(b), nil
}

// Create inserts t with a fresh id. HouseID and CreatedBy must be set.
func (s *TemplateStore) Create(ctx context.Context, t model.RecurringTask) (*model.RecurringTask, error) {
	days, err := encodeDays(t.CustomDays)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recurring_tasks (id, house_id, user_id, title, description, assignee, points, emoji, color, difficulty, recurrence, custom_days)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.HouseID, t.CreatedBy, t.Title, t.Description, t.Assignee,
		t.Points, t.Emoji, t.ColorTheme, t.Difficulty, t.Recurrence, days,
	)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *TemplateStore) GetByID(ctx context.Context, id string) (*model.RecurringTask, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateCols+` FROM recurring_tasks WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// ListByHouse returns every template in the house, oldest first.
func (s *TemplateStore) ListByHouse(ctx context.Context, houseID string) ([]model.RecurringTask, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateCols+` FROM recurring_tasks WHERE house_id = ? ORDER BY created_at ASC, id ASC`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []model.RecurringTask
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// Update overwrites the editable fields of an existing template.
func (s *TemplateStore) Update(ctx context.Context, t model.RecurringTask) (*model.RecurringTask, error) {
	days, err := encodeDays(t.CustomDays)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE recurring_tasks
		 SET title = ?, description = ?, assignee = ?, points = ?, emoji = ?, color = ?,
		     difficulty = ?, recurrence = ?, custom_days = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND house_id = ?`,
		t.Title, t.Description, t.Assignee, t.Points, t.Emoji, t.ColorTheme,
		t.Difficulty, t.Recurrence, days, t.ID, t.HouseID,
	)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return s.GetByID(ctx, t.ID)
}

// Delete removes a template. Chores already generated from it are kept.
func (s *TemplateStore) Delete(ctx context.Context, houseID, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recurring_tasks WHERE id = ? AND house_id = ?`, id, houseID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
