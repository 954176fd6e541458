package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"vendex/logger"
	"vendex/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDuplicate is returned when a write violates a unique constraint.
var ErrDuplicate = errors.New("duplicate entry")

// Store is the only component that talks to the database. Every method runs
// its statements on the pool and releases the connection before returning.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an already opened handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open connects to the sqlite database at path, applies migrations and seeds
// the demo accounts. With seedDemo set it also seeds sample machines and snacks.
func Open(ctx context.Context, path string, seedDemo bool) (*Store, error) {
	dsn := path
	if path != ":memory:" && !strings.Contains(path, "?") {
		dsn = path + "?_busy_timeout=5000"
	}

	conn, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if path == ":memory:" {
		// every new connection would see its own empty database
		conn.SetMaxOpenConns(1)
	}

	if err := migrateUp(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &Store{db: conn}
	if err := s.seedUsers(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	if seedDemo {
		if err := s.seedDemo(ctx, time.Now()); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func migrateUp(conn *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(conn.DB, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	// m.Close would also close conn, so only the source is released.
	defer src.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

var demoUsers = []struct {
	username, password string
	role               models.Role
}{
	{"admin", "admin123", models.RoleAdmin},
	{"vendor1", "vendor123", models.RoleVendor},
	{"employee1", "emp123", models.RoleEmployee},
}

func (s *Store) seedUsers(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users"); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, u := range demoUsers {
		hash, err := HashPassword(u.password)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users (username, password, role) VALUES (?, ?, ?)",
			u.username, hash, u.role); err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
		logger.Log.Infow("demo account created", "username", u.username, "role", u.role)
	}
	return tx.Commit()
}

func (s *Store) seedDemo(ctx context.Context, now time.Time) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var machines int
	if err := tx.GetContext(ctx, &machines, "SELECT COUNT(*) FROM machines"); err != nil {
		return err
	}
	if machines == 0 {
		for _, m := range [][2]string{
			{"Main Lobby Machine", "Building A - Main Entrance"},
			{"Cafeteria Machine", "Building A - 2nd Floor Cafeteria"},
			{"Break Room Machine", "Building B - 3rd Floor"},
		} {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO machines (name, location, status) VALUES (?, ?, ?)",
				m[0], m[1], models.MachineActive); err != nil {
				return fmt.Errorf("seed machine: %w", err)
			}
		}
	}

	var snacks int
	if err := tx.GetContext(ctx, &snacks, "SELECT COUNT(*) FROM snacks"); err != nil {
		return err
	}
	if snacks == 0 {
		sample := []struct {
			name     string
			stock    int
			days     int
			price    float64
			category string
		}{
			{"Chips", 50, 60, 1.50, "Savory"},
			{"Chocolate Bar", 40, 45, 2.00, "Candy"},
			{"Cookies", 35, 30, 1.75, "Bakery"},
			{"Granola Bar", 45, 90, 2.25, "Healthy"},
			{"Pretzels", 30, 2, 1.50, "Savory"},
			{"Gummy Bears", 25, 1, 1.25, "Candy"},
			{"Trail Mix", 20, 120, 2.50, "Healthy"},
			{"Popcorn", 15, 40, 1.00, "Savory"},
		}
		for _, sn := range sample {
			expiry := now.AddDate(0, 0, sn.days).Format(DateLayout)
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO snacks (name, stock, expiry_date, price, category) VALUES (?, ?, ?, ?, ?)",
				sn.name, sn.stock, expiry, sn.price, sn.category); err != nil {
				return fmt.Errorf("seed snack: %w", err)
			}
		}
	}
	return tx.Commit()
}

// DateLayout is the storage format of snack expiry dates.
const DateLayout = "2006-01-02"

// TimeLayout is the storage format of update timestamps.
const TimeLayout = "2006-01-02T15:04:05"

// HashCost is the bcrypt cost used for new hashes. Tests lower it.
var HashCost = bcrypt.DefaultCost

// DummyHash is compared against when a username does not exist so that
// unknown and known users cost the same.
var DummyHash, _ = HashPassword("vendex-dummy-password")

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

func logQuery(query string, args []any, err error) {
	logger.Log.Debugw("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)
}

// readFailed logs a read error that is being swallowed in favour of an
// empty result.
func readFailed(op string, err error) {
	logger.Log.Errorw("storage read failed, returning empty result", "op", op, "error", err)
}
