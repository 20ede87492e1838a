package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested user or tracked item is absent.
var ErrNotFound = errors.New("not found")

// GetDefaultHall returns the user's default hall, or ErrNotFound when the
// user has no account.
func (s *Store) GetDefaultHall(ctx context.Context, userID string) (string, error) {
	var hall string
	err := s.conn.GetContext(ctx, &hall, "SELECT hall FROM users WHERE user_id = ?", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get default hall: %w", err)
	}
	return hall, nil
}

// SetDefaultHall creates the user's account or updates its default hall.
func (s *Store) SetDefaultHall(ctx context.Context, userID, hall string) error {
	query := `INSERT INTO users (user_id, hall) VALUES (?, ?)
	          ON CONFLICT(user_id) DO UPDATE SET hall = excluded.hall`
	if _, err := s.conn.ExecContext(ctx, query, userID, hall); err != nil {
		return fmt.Errorf("set default hall: %w", err)
	}
	return nil
}

// GetTrackedItems returns the user's tracked food names in the order they
// were added. A user with no items gets an empty list, not an error.
func (s *Store) GetTrackedItems(ctx context.Context, userID string) ([]string, error) {
	var items []string
	query := `SELECT food.name FROM users_food
	          JOIN food ON users_food.food_id = food.food_id
	          WHERE users_food.user_id = ? ORDER BY food.food_id`
	if err := s.conn.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("get tracked items: %w", err)
	}
	return items, nil
}

// AddTrackedItem adds a food name to the user's tracked list. The food row
// is shared between users and created on first use; re-adding is a no-op.
func (s *Store) AddTrackedItem(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("empty item name")
	}

	err := s.InTransaction(ctx, func(tx *sqlx.Tx) error {
		var foodID int64
		err := tx.GetContext(ctx, &foodID, "SELECT food_id FROM food WHERE name = ?", name)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			res, insErr := tx.ExecContext(ctx, "INSERT INTO food (name) VALUES (?)", name)
			if insErr != nil {
				return fmt.Errorf("insert food: %w", insErr)
			}
			if foodID, insErr = res.LastInsertId(); insErr != nil {
				return fmt.Errorf("get food id: %w", insErr)
			}
		case err != nil:
			return fmt.Errorf("lookup food: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO users_food (user_id, food_id) VALUES (?, ?)", userID, foodID); err != nil {
			return fmt.Errorf("link food to user: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("add tracked item: %w", err)
	}
	return nil
}

// RemoveTrackedItem drops a food name from the user's tracked list. Unknown
// names or names the user doesn't track yield ErrNotFound.
func (s *Store) RemoveTrackedItem(ctx context.Context, userID, name string) error {
	var foodID int64
	err := s.conn.GetContext(ctx, &foodID, "SELECT food_id FROM food WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup food: %w", err)
	}

	res, err := s.conn.ExecContext(ctx, "DELETE FROM users_food WHERE user_id = ? AND food_id = ?", userID, foodID)
	if err != nil {
		return fmt.Errorf("remove tracked item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
