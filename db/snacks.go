package db

import (
	"context"
	"fmt"

	"vendex/models"
)

const snackColumns = "id, name, stock, expiry_date, price, category, created_at"

func (s *Store) CreateSnack(ctx context.Context, sn models.Snack) (int64, error) {
	const query = "INSERT INTO snacks (name, stock, expiry_date, price, category) VALUES (?, ?, ?, ?, ?)"
	args := []any{sn.Name, sn.Stock, sn.ExpiryDate, sn.Price, sn.Category}
	res, err := s.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return 0, fmt.Errorf("create snack: %w", err)
	}
	return res.LastInsertId()
}

// ListSnacks returns every snack ordered by name.
func (s *Store) ListSnacks(ctx context.Context) []models.Snack {
	query := "SELECT " + snackColumns + " FROM snacks ORDER BY name, id"
	snacks := []models.Snack{}
	err := s.db.SelectContext(ctx, &snacks, query)
	logQuery(query, nil, err)
	if err != nil {
		readFailed("ListSnacks", err)
		return []models.Snack{}
	}
	return snacks
}

func (s *Store) SnackByID(ctx context.Context, id int64) (models.Snack, bool) {
	query := "SELECT " + snackColumns + " FROM snacks WHERE id = ?"
	var sn models.Snack
	err := s.db.GetContext(ctx, &sn, query, id)
	logQuery(query, []any{id}, err)
	if err != nil {
		if !isNoRows(err) {
			readFailed("SnackByID", err)
		}
		return models.Snack{}, false
	}
	return sn, true
}

// SetSnackStock overwrites the stock of a snack. A missing id matches no
// row and is not reported.
func (s *Store) SetSnackStock(ctx context.Context, id int64, stock int) error {
	const query = "UPDATE snacks SET stock = ? WHERE id = ?"
	_, err := s.db.ExecContext(ctx, query, stock, id)
	logQuery(query, []any{stock, id}, err)
	if err != nil {
		return fmt.Errorf("set snack stock: %w", err)
	}
	return nil
}

func (s *Store) DeleteSnack(ctx context.Context, id int64) (name string, found bool, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("delete snack: %w", err)
	}
	defer tx.Rollback()

	if err := tx.GetContext(ctx, &name, "SELECT name FROM snacks WHERE id = ?", id); err != nil {
		if isNoRows(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("delete snack: %w", err)
	}
	const query = "DELETE FROM snacks WHERE id = ?"
	_, err = tx.ExecContext(ctx, query, id)
	logQuery(query, []any{id}, err)
	if err != nil {
		return "", false, fmt.Errorf("delete snack: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("delete snack: %w", err)
	}
	return name, true, nil
}
