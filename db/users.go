package db

import (
	"context"
	"fmt"
	"time"

	"vendex/models"
)

const userColumns = "id, username, password, role, created_at, last_login"

// UserByUsername looks a user up by exact, case-sensitive username.
func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, bool) {
	query := "SELECT " + userColumns + " FROM users WHERE username = ?"
	var u models.User
	err := s.db.GetContext(ctx, &u, query, username)
	logQuery(query, []any{username}, err)
	if err != nil {
		if !isNoRows(err) {
			readFailed("UserByUsername", err)
		}
		return models.User{}, false
	}
	return u, true
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string, role models.Role) (int64, error) {
	const query = "INSERT INTO users (username, password, role) VALUES (?, ?, ?)"
	res, err := s.db.ExecContext(ctx, query, username, passwordHash, role)
	logQuery(query, []any{username, "***", role}, err)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	const query = "UPDATE users SET last_login = ? WHERE id = ?"
	_, err := s.db.ExecContext(ctx, query, at.UTC(), id)
	logQuery(query, []any{at, id}, err)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) []models.User {
	query := "SELECT " + userColumns + " FROM users ORDER BY role, username"
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users, query)
	logQuery(query, nil, err)
	if err != nil {
		readFailed("ListUsers", err)
		return []models.User{}
	}
	return users
}
