package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/chorecore/internal/model"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func scanProfile(scanner interface{ Scan(...any) error }) (*model.UserProfile, error) {
	var p model.UserProfile
	err := scanner.Scan(&p.UserID, &p.HouseID, &p.DisplayName, &p.Role, &p.Points, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const profileCols = `user_id, house_id, display_name, role, points, created_at`

// Create adds a profile for userID in an existing house. A user that already
// has a profile yields ErrDuplicate.
func (s *ProfileStore) Create(ctx context.Context, userID, houseID, displayName string, role model.Role) (*model.UserProfile, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id, house_id, display_name, role, points) VALUES (?, ?, ?, ?, 0)`,
		userID, houseID, displayName, role,
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return s.Get(ctx, userID)
}

// Get returns the profile for userID, or nil if the user has not joined a house.
func (s *ProfileStore) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileCols+` FROM user_profiles WHERE user_id = ?`, userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// ListMembers returns every profile in the house with its account email,
// oldest first.
func (s *ProfileStore) ListMembers(ctx context.Context, houseID string) ([]model.HouseMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.user_id, p.house_id, p.display_name, p.role, p.points, p.created_at, a.email
		 FROM user_profiles p
		 JOIN accounts a ON a.id = p.user_id
		 WHERE p.house_id = ?
		 ORDER BY p.created_at ASC, p.display_name ASC`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.HouseMember
	for rows.Next() {
		var m model.HouseMember
		if err := rows.Scan(
			&m.UserID, &m.HouseID, &m.DisplayName, &m.Role, &m.Points, &m.CreatedAt, &m.Email,
		); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// FindByAssignee resolves a chore assignee (display name or email) to a
// profile in the house, preferring the oldest member on ties. Matching
// ignores surrounding space and folds case the same way toggling does.
func (s *ProfileStore) FindByAssignee(ctx context.Context, houseID, assignee string) (*model.UserProfile, error) {
	if strings.TrimSpace(assignee) == "" {
		return nil, nil
	}
	members, err := s.ListMembers(ctx, houseID)
	if err != nil {
		return nil, fmt.Errorf("find profile by assignee: %w", err)
	}
	for _, m := range members {
		if model.AssigneeMatches(assignee, m.DisplayName, m.Email) {
			p := m.UserProfile
			return &p, nil
		}
	}
	return nil, nil
}

// CreditPoints adds delta (which may be negative) to the user's balance and
// returns the new balance.
func (s *ProfileStore) CreditPoints(ctx context.Context, userID string, delta int) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_profiles SET points = points + ? WHERE user_id = ?`,
		delta, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("credit points: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, fmt.Errorf("credit points: %w", err)
	} else if n == 0 {
		return 0, fmt.Errorf("credit points: no profile for user %q", userID)
	}
	return s.balance(ctx, userID)
}

// DebitPoints subtracts amount only if the balance covers it. It reports false
// without changing anything when the balance is too low.
func (s *ProfileStore) DebitPoints(ctx context.Context, userID string, amount int) (int, bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_profiles SET points = points - ? WHERE user_id = ? AND points >= ?`,
		amount, userID, amount,
	)
	if err != nil {
		return 0, false, fmt.Errorf("debit points: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("debit points: %w", err)
	}
	if n == 0 {
		return 0, false, nil
	}
	bal, err := s.balance(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	return bal, true, nil
}

func (s *ProfileStore) balance(ctx context.Context, userID string) (int, error) {
	var points int
	err := s.db.QueryRowContext(ctx, `SELECT points FROM user_profiles WHERE user_id = ?`, userID).Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return points, nil
}
