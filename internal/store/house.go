package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukerupert/chorecore/internal/model"
)

type HouseStore struct {
	db *sql.DB
}

func NewHouseStore(db *sql.DB) *HouseStore {
	return &HouseStore{db: db}
}

func scanHouse(scanner interface{ Scan(...any) error }) (*model.House, error) {
	var h model.House
	err := scanner.Scan(&h.ID, &h.Name, &h.CreatedBy, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

const houseCols = `id, name, created_by, created_at`

// CreateWithAdmin creates a house and the creator's admin profile in a single
// transaction. A creator who already has a profile yields ErrDuplicate.
func (s *HouseStore) CreateWithAdmin(ctx context.Context, name, userID, displayName string) (*model.House, *model.UserProfile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	houseID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO houses (id, name, created_by) VALUES (?, ?, ?)`,
		houseID, name, userID,
	); err != nil {
		return nil, nil, fmt.Errorf("insert house: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id, house_id, display_name, role, points) VALUES (?, ?, ?, ?, 0)`,
		userID, houseID, displayName, model.RoleAdmin,
	)
	if isUniqueViolation(err) {
		return nil, nil, ErrDuplicate
	}
	if err != nil {
		return nil, nil, fmt.Errorf("insert admin profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit house: %w", err)
	}

	house, err := s.GetByID(ctx, houseID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := NewProfileStore(s.db).Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return house, profile, nil
}

func (s *HouseStore) GetByID(ctx context.Context, id string) (*model.House, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+houseCols+` FROM houses WHERE id = ?`, id)
	h, err := scanHouse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get house: %w", err)
	}
	return h, nil
}

func (s *HouseStore) CountMembers(ctx context.Context, houseID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_profiles WHERE house_id = ?`, houseID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}
