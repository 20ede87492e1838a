package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/scrounge/pkg/domain"
)

// ReplaceHall swaps a hall's cached menu for a new generation in a single
// transaction: delete all rows for the hall, insert the new ones in order.
// Readers never observe the hall empty or with rows from two generations.
func (s *Store) ReplaceHall(ctx context.Context, hall string, entries []domain.MenuEntry) error {
	rows := make([]domain.MenuEntry, len(entries))
	for i, e := range entries {
		e.Hall = hall // rows are stored under the hall being replaced
		rows[i] = e
	}

	err := s.InTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM menu WHERE hall = ?", hall); err != nil {
			return fmt.Errorf("delete menu rows: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		query := `INSERT INTO menu (hall, meal, station, item) VALUES (:hall, :meal, :station, :item)`
		if _, err := tx.NamedExecContext(ctx, query, rows); err != nil {
			return fmt.Errorf("insert menu rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace menu for %s: %w", hall, err)
	}
	return nil
}

// ReadHall reconstructs a hall's menu from stored rows. Rows come back in
// rowid order, which is the order ReplaceHall inserted them, so the menu
// follows the fetched page order.
func (s *Store) ReadHall(ctx context.Context, hall string) (*domain.Menu, error) {
	var entries []domain.MenuEntry
	query := `SELECT hall, meal, station, item FROM menu WHERE hall = ? ORDER BY rowid`
	if err := s.conn.SelectContext(ctx, &entries, query, hall); err != nil {
		return nil, fmt.Errorf("read menu for %s: %w", hall, err)
	}
	return domain.MenuFromEntries(hall, entries), nil
}

// ReadAllHalls reads the cached menu for every given hall, keyed by hall.
func (s *Store) ReadAllHalls(ctx context.Context, halls []string) (map[string]*domain.Menu, error) {
	res := make(map[string]*domain.Menu, len(halls))
	for _, hall := range halls {
		menu, err := s.ReadHall(ctx, hall)
		if err != nil {
			return nil, err
		}
		res[hall] = menu
	}
	return res, nil
}

// GetLastRefresh returns the instant of the last successful refresh in UTC,
// or the zero time if no refresh has ever completed.
func (s *Store) GetLastRefresh(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := s.conn.GetContext(ctx, &ts, "SELECT last_refresh FROM refresh_state WHERE id = 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("get last refresh: %w", err)
	}
	return ts.UTC(), nil
}

// SetLastRefresh persists the refresh instant, overwriting any prior value.
func (s *Store) SetLastRefresh(ctx context.Context, ts time.Time) error {
	query := `INSERT INTO refresh_state (id, last_refresh) VALUES (1, ?)
	          ON CONFLICT(id) DO UPDATE SET last_refresh = excluded.last_refresh`
	if _, err := s.conn.ExecContext(ctx, query, ts.UTC()); err != nil {
		return fmt.Errorf("set last refresh: %w", err)
	}
	return nil
}
