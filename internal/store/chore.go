package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/chorecore/internal/model"
)

// ErrStale is returned when a conditional update finds the row no longer in
// the state the caller observed.
var ErrStale = errors.New("record changed concurrently")

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var awarded sql.NullInt64
	var status string
	var templateID, completedBy, approvedBy sql.NullString
	var completedAt, approvedAt sql.NullTime

	err := scanner.Scan(
		&c.ID, &c.HouseID, &c.CreatedBy, &c.Title, &c.Description, &c.Assignee,
		&c.Points, &awarded, &c.Emoji, &c.ColorTheme, &c.Difficulty, &c.Date,
		&status, &templateID, &completedBy, &completedAt, &approvedBy, &approvedAt,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if c.Status, err = model.ParseChoreStatus(status); err != nil {
		return nil, err
	}
	if awarded.Valid {
		n := int(awarded.Int64)
		c.AwardedPoints = &n
	}
	if templateID.Valid {
		c.RecurringTaskID = &templateID.String
	}
	if completedBy.Valid {
		c.CompletedBy = &completedBy.String
	}
	if completedAt.Valid {
		c.CompletedAt = &completedAt.Time
	}
	if approvedBy.Valid {
		c.ApprovedBy = &approvedBy.String
	}
	if approvedAt.Valid {
		c.ApprovedAt = &approvedAt.Time
	}
	return &c, nil
}

const choreCols = `id, house_id, user_id, title, description, assignee, points, awarded_points, emoji, color, difficulty, date, status, recurring_task_id, completed_by, completed_at, approved_by, approved_at, created_at`

const insertChore = `INSERT INTO chores (id, house_id, user_id, title, description, assignee, points, emoji, color, difficulty, date, status, recurring_task_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func choreArgs(c model.Chore) []any {
	var templateID sql.NullString
	if c.RecurringTaskID != nil {
		templateID = sql.NullString{String: *c.RecurringTaskID, Valid: true}
	}
	return []any{
		c.ID, c.HouseID, c.CreatedBy, c.Title, c.Description, c.Assignee,
		c.Points, c.Emoji, c.ColorTheme, c.Difficulty, c.Date, model.StatusIncomplete, templateID,
	}
}

// Create inserts a one-off chore with a fresh id.
func (s *ChoreStore) Create(ctx context.Context, c model.Chore) (*model.Chore, error) {
	c.ID = uuid.NewString()
	c.RecurringTaskID = nil
	if _, err := s.db.ExecContext(ctx, insertChore, choreArgs(c)...); err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	return s.GetByID(ctx, c.ID)
}

// InsertGenerated records that houseID's recurring chores for date have been
// generated and inserts chores, all in one transaction. If the house already
// has a generation record for date nothing is written and fresh is false.
// Chores whose id already exists are skipped; inserted holds only the chores
// actually written.
func (s *ChoreStore) InsertGenerated(ctx context.Context, houseID, date, userID string, chores []model.Chore) (inserted []model.Chore, fresh bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO chore_generations (house_id, date, generated_by) VALUES (?, ?, ?)
		 ON CONFLICT(house_id, date) DO NOTHING`,
		houseID, date, userID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("record generation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, false, nil
	}

	stmt, err := tx.PrepareContext(ctx, insertChore+` ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		return nil, false, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var ids []string
	for _, c := range chores {
		res, err := stmt.ExecContext(ctx, choreArgs(c)...)
		if err != nil {
			return nil, false, fmt.Errorf("insert generated chore %s: %w", c.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, false, fmt.Errorf("rows affected: %w", err)
		}
		if n > 0 {
			ids = append(ids, c.ID)
		}
	}

	inserted = make([]model.Chore, 0, len(ids))
	for _, id := range ids {
		c, err := scanChore(tx.QueryRowContext(ctx, `SELECT `+choreCols+` FROM chores WHERE id = ?`, id))
		if err != nil {
			return nil, false, fmt.Errorf("read generated chore: %w", err)
		}
		inserted = append(inserted, *c)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit generated chores: %w", err)
	}
	return inserted, true, nil
}

func (s *ChoreStore) GetByID(ctx context.Context, id string) (*model.Chore, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

// ListByHouse returns the house's chores. An empty date lists every date.
func (s *ChoreStore) ListByHouse(ctx context.Context, houseID, date string) ([]model.Chore, error) {
	query := `SELECT ` + choreCols + ` FROM chores WHERE house_id = ?`
	args := []any{houseID}
	if date != "" {
		query += ` AND date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY date ASC, created_at ASC, id ASC`
	return s.list(ctx, query, args...)
}

// ListPending returns chores awaiting approval, most recently submitted first.
func (s *ChoreStore) ListPending(ctx context.Context, houseID string) ([]model.Chore, error) {
	return s.list(ctx,
		`SELECT `+choreCols+` FROM chores
		 WHERE house_id = ? AND status = ?
		 ORDER BY completed_at DESC, id ASC`,
		houseID, model.StatusPendingApproval,
	)
}

func (s *ChoreStore) list(ctx context.Context, query string, args ...any) ([]model.Chore, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// Submit moves a chore from incomplete to pending_approval and records who
// did it. ErrStale means the chore was no longer incomplete.
func (s *ChoreStore) Submit(ctx context.Context, id, userID string) (*model.Chore, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chores SET status = ?, completed_by = ?, completed_at = ?
		 WHERE id = ? AND status = ?`,
		model.StatusPendingApproval, userID, time.Now().UTC(), id, model.StatusIncomplete,
	)
	if err != nil {
		return nil, fmt.Errorf("submit chore: %w", err)
	}
	return s.afterTransition(ctx, res, id)
}

// Revert moves a chore from pending_approval back to incomplete. Only the
// status changes. ErrStale means the chore was no longer pending.
func (s *ChoreStore) Revert(ctx context.Context, id string) (*model.Chore, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chores SET status = ? WHERE id = ? AND status = ?`,
		model.StatusIncomplete, id, model.StatusPendingApproval,
	)
	if err != nil {
		return nil, fmt.Errorf("revert chore: %w", err)
	}
	return s.afterTransition(ctx, res, id)
}

func (s *ChoreStore) afterTransition(ctx context.Context, res sql.Result, id string) (*model.Chore, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrStale
	}
	return s.GetByID(ctx, id)
}

// Approve completes a pending chore and credits awarded points to creditUserID
// in a single transaction. ErrStale means the chore was no longer pending;
// nothing is written in that case.
func (s *ChoreStore) Approve(ctx context.Context, id, approverID string, awarded int, creditUserID string) (*model.Chore, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE chores SET status = ?, awarded_points = ?, approved_by = ?, approved_at = ?
		 WHERE id = ? AND status = ?`,
		model.StatusCompleted, awarded, approverID, time.Now().UTC(), id, model.StatusPendingApproval,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("approve chore: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, 0, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, 0, ErrStale
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE user_profiles SET points = points + ? WHERE user_id = ?`,
		awarded, creditUserID,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("credit points: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, 0, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return nil, 0, fmt.Errorf("credit points: no profile for user %q", creditUserID)
	}

	var balance int
	if err := tx.QueryRowContext(ctx,
		`SELECT points FROM user_profiles WHERE user_id = ?`, creditUserID,
	).Scan(&balance); err != nil {
		return nil, 0, fmt.Errorf("read balance: %w", err)
	}

	c, err := scanChore(tx.QueryRowContext(ctx, `SELECT `+choreCols+` FROM chores WHERE id = ?`, id))
	if err != nil {
		return nil, 0, fmt.Errorf("read approved chore: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit approval: %w", err)
	}
	return c, balance, nil
}

// Delete removes a chore from the house. It reports whether a row was removed.
func (s *ChoreStore) Delete(ctx context.Context, houseID, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chores WHERE id = ? AND house_id = ?`, id, houseID)
	if err != nil {
		return false, fmt.Errorf("delete chore: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
