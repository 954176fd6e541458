package db

import (
	"context"
	"fmt"

	"vendex/models"
)

const machineColumns = "id, name, location, status, created_at"

func (s *Store) CreateMachine(ctx context.Context, name, location string, status models.MachineStatus) (int64, error) {
	const query = "INSERT INTO machines (name, location, status) VALUES (?, ?, ?)"
	res, err := s.db.ExecContext(ctx, query, name, location, status)
	logQuery(query, []any{name, location, status}, err)
	if err != nil {
		return 0, fmt.Errorf("create machine: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) MachineByID(ctx context.Context, id int64) (models.Machine, bool) {
	query := "SELECT " + machineColumns + " FROM machines WHERE id = ?"
	var m models.Machine
	err := s.db.GetContext(ctx, &m, query, id)
	logQuery(query, []any{id}, err)
	if err != nil {
		if !isNoRows(err) {
			readFailed("MachineByID", err)
		}
		return models.Machine{}, false
	}
	return m, true
}

func (s *Store) ListMachines(ctx context.Context) []models.Machine {
	query := "SELECT " + machineColumns + " FROM machines ORDER BY name, id"
	machines := []models.Machine{}
	err := s.db.SelectContext(ctx, &machines, query)
	logQuery(query, nil, err)
	if err != nil {
		readFailed("ListMachines", err)
		return []models.Machine{}
	}
	return machines
}

// DeleteMachine removes the machine and returns the name it had. found is
// false when no machine has that id.
func (s *Store) DeleteMachine(ctx context.Context, id int64) (name string, found bool, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("delete machine: %w", err)
	}
	defer tx.Rollback()

	if err := tx.GetContext(ctx, &name, "SELECT name FROM machines WHERE id = ?", id); err != nil {
		if isNoRows(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("delete machine: %w", err)
	}
	const query = "DELETE FROM machines WHERE id = ?"
	_, err = tx.ExecContext(ctx, query, id)
	logQuery(query, []any{id}, err)
	if err != nil {
		return "", false, fmt.Errorf("delete machine: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("delete machine: %w", err)
	}
	return name, true, nil
}
