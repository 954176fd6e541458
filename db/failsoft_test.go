package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendex/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewStore(sqlx.NewDb(conn, "sqlite3")), mock
}

func TestReadsFailSoft(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	mock.ExpectQuery("SELECT (.+) FROM snacks").WillReturnError(boom)
	snacks := s.ListSnacks(ctx)
	assert.NotNil(t, snacks)
	assert.Empty(t, snacks)

	mock.ExpectQuery("SELECT (.+) FROM machines").WillReturnError(boom)
	assert.Empty(t, s.ListMachines(ctx))

	mock.ExpectQuery("SELECT (.+) FROM updates").WillReturnError(boom)
	assert.Empty(t, s.AllUpdates(ctx))

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").WillReturnError(boom)
	_, ok := s.UserByUsername(ctx, "admin")
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWritesReturnErrors(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO snacks").WillReturnError(errors.New("readonly database"))
	_, err := s.CreateSnack(ctx, models.Snack{Name: "Chips", ExpiryDate: "2030-01-01"})
	assert.Error(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name FROM machines").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Lobby"))
	mock.ExpectExec("DELETE FROM machines").WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	_, found, err := s.DeleteMachine(ctx, 3)
	assert.Error(t, err)
	assert.False(t, found)

	assert.NoError(t, mock.ExpectationsWereMet())
}
