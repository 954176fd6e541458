package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vendex/models"
)

func TestMain(m *testing.M) {
	HashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func openTestStore(t *testing.T, seedDemo bool) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), seedDemo)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchemaAndSeedsUsers(t *testing.T) {
	s := openTestStore(t, false)

	for _, table := range []string{"users", "machines", "snacks", "updates"} {
		var count int
		err := s.db.Get(&count, "SELECT COUNT(*) FROM "+table)
		assert.NoError(t, err, "could not query %s table", table)
	}

	admin, ok := s.UserByUsername(context.Background(), "admin")
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, CheckPasswordHash("admin123", admin.PasswordHash))

	vendor, ok := s.UserByUsername(context.Background(), "vendor1")
	require.True(t, ok)
	assert.Equal(t, models.RoleVendor, vendor.Role)

	assert.Empty(t, s.ListMachines(context.Background()))
	assert.Empty(t, s.ListSnacks(context.Background()))
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	ctx := context.Background()

	s, err := Open(ctx, path, true)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, true)
	require.NoError(t, err)
	defer s.Close()

	assert.Len(t, s.ListUsers(ctx), 3)
	assert.Len(t, s.ListMachines(ctx), 3)
	assert.Len(t, s.ListSnacks(ctx), 8)
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(context.Background(), ":memory:", false)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.UserByUsername(context.Background(), "employee1")
	assert.True(t, ok)
}

func TestUsers(t *testing.T) {
	s := openTestStore(t, false)
	ctx := context.Background()

	id, err := s.CreateUser(ctx, "Alice", "hash", models.RoleEmployee)
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = s.CreateUser(ctx, "Alice", "hash", models.RoleEmployee)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, ok := s.UserByUsername(ctx, "alice")
	assert.False(t, ok, "usernames are case-sensitive")

	require.NoError(t, s.TouchLastLogin(ctx, id, time.Now()))
	u, ok := s.UserByUsername(ctx, "Alice")
	require.True(t, ok)
	assert.True(t, u.LastLogin.Valid)
}

func TestMachines(t *testing.T) {
	s := openTestStore(t, false)
	ctx := context.Background()

	zid, err := s.CreateMachine(ctx, "Zeta", "Roof", models.MachineActive)
	require.NoError(t, err)
	aid, err := s.CreateMachine(ctx, "Alpha", "Basement", models.MachineMaintenance)
	require.NoError(t, err)

	list := s.ListMachines(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, models.MachineMaintenance, list[0].Status)

	m, ok := s.MachineByID(ctx, zid)
	require.True(t, ok)
	assert.Equal(t, "Roof", m.Location)

	name, found, err := s.DeleteMachine(ctx, aid)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Alpha", name)

	_, found, err = s.DeleteMachine(ctx, aid)
	require.NoError(t, err)
	assert.False(t, found)

	_, ok = s.MachineByID(ctx, aid)
	assert.False(t, ok)
}

func TestSnacks(t *testing.T) {
	s := openTestStore(t, false)
	ctx := context.Background()

	id, err := s.CreateSnack(ctx, models.Snack{Name: "Soda", Stock: 5, ExpiryDate: "2030-01-02", Category: "Drinks"})
	require.NoError(t, err)
	_, err = s.CreateSnack(ctx, models.Snack{Name: "Apple", Stock: 1, ExpiryDate: "2030-01-01", Category: "General"})
	require.NoError(t, err)

	list := s.ListSnacks(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "Apple", list[0].Name)
	assert.Equal(t, "2030-01-01", list[0].ExpiryDate)

	require.NoError(t, s.SetSnackStock(ctx, id, 42))
	sn, ok := s.SnackByID(ctx, id)
	require.True(t, ok)
	assert.Equal(t, 42, sn.Stock)

	// unknown ids are silently ignored
	assert.NoError(t, s.SetSnackStock(ctx, 9999, 1))

	name, found, err := s.DeleteSnack(ctx, id)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Soda", name)

	_, found, err = s.DeleteSnack(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdates(t *testing.T) {
	s := openTestStore(t, false)
	ctx := context.Background()

	add := func(vendor, info, at string) {
		_, err := s.CreateUpdate(ctx, models.Update{Vendor: vendor, Machine: "Lobby", Info: info, Time: at, Type: models.UpdateRestock})
		require.NoError(t, err)
	}
	add("v1", "first", "2026-01-01T10:00:00")
	add("v2", "other", "2026-01-01T11:00:00")
	add("v1", "second", "2026-01-01T12:00:00")
	add("v1", "third", "2026-01-01T12:00:00")

	mine := s.UpdatesByVendor(ctx, "v1", 10)
	require.Len(t, mine, 3)
	assert.Equal(t, "third", mine[0].Info, "same second ties are broken by id")
	assert.Equal(t, "first", mine[2].Info)

	assert.Len(t, s.UpdatesByVendor(ctx, "v1", 2), 2)

	recent := s.RecentUpdates(ctx, 50)
	require.Len(t, recent, 4)
	assert.Equal(t, "third", recent[0].Info)

	all := s.AllUpdates(ctx)
	require.Len(t, all, 4)
	assert.Equal(t, "first", all[0].Info)
	assert.Equal(t, models.UpdateRestock, all[0].Type)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("mypassword")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("mypassword", hash))
	assert.False(t, CheckPasswordHash("wrongpassword", hash))
	assert.False(t, CheckPasswordHash("mypassword", DummyHash))
}
