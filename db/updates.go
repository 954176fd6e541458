package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vendex/models"
)

const updateColumns = "id, vendor, machine, info, time, update_type"

func (s *Store) CreateUpdate(ctx context.Context, u models.Update) (int64, error) {
	const query = "INSERT INTO updates (vendor, machine, info, time, update_type) VALUES (?, ?, ?, ?, ?)"
	args := []any{u.Vendor, u.Machine, u.Info, u.Time, u.Type}
	res, err := s.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return 0, fmt.Errorf("create update: %w", err)
	}
	return res.LastInsertId()
}

// UpdatesByVendor returns the newest updates recorded by vendor.
func (s *Store) UpdatesByVendor(ctx context.Context, vendor string, limit int) []models.Update {
	query := "SELECT " + updateColumns + " FROM updates WHERE vendor = ? ORDER BY time DESC, id DESC LIMIT ?"
	return s.selectUpdates(ctx, "UpdatesByVendor", query, vendor, limit)
}

// RecentUpdates returns the newest updates across all vendors.
func (s *Store) RecentUpdates(ctx context.Context, limit int) []models.Update {
	query := "SELECT " + updateColumns + " FROM updates ORDER BY time DESC, id DESC LIMIT ?"
	return s.selectUpdates(ctx, "RecentUpdates", query, limit)
}

// AllUpdates returns the whole ledger in insertion order.
func (s *Store) AllUpdates(ctx context.Context) []models.Update {
	query := "SELECT " + updateColumns + " FROM updates ORDER BY id"
	return s.selectUpdates(ctx, "AllUpdates", query)
}

func (s *Store) selectUpdates(ctx context.Context, op, query string, args ...any) []models.Update {
	updates := []models.Update{}
	err := s.db.SelectContext(ctx, &updates, query, args...)
	logQuery(query, args, err)
	if err != nil {
		readFailed(op, err)
		return []models.Update{}
	}
	return updates
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
