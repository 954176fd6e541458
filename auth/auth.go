package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"vendex/db"
	"vendex/logger"
	"vendex/models"
)

const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
)

// AccessDenied is returned when an authenticated principal lacks the
// required role. Redirect points at the caller's own landing page, not at
// the page that was asked for.
type AccessDenied struct {
	Required models.Role
	Redirect string
}

func (e *AccessDenied) Error() string {
	return fmt.Sprintf("access denied: %s role required", e.Required)
}

type UserStore interface {
	UserByUsername(ctx context.Context, username string) (models.User, bool)
	CreateUser(ctx context.Context, username, passwordHash string, role models.Role) (int64, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

type Service struct {
	users UserStore
	now   func() time.Time
}

func NewService(users UserStore) *Service {
	return &Service{users: users, now: time.Now}
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return models.Invalid("PasswordTooShort")
	}
	return nil
}

// Register creates an employee account. Admin and vendor accounts are only
// ever seeded.
func (s *Service) Register(ctx context.Context, username, password, confirmPassword string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, models.Invalid("UsernamePasswordRequired")
	}
	if password != confirmPassword {
		return 0, models.Invalid("PasswordsDoNotMatch")
	}
	if err := ValidatePassword(password); err != nil {
		return 0, err
	}
	if _, exists := s.users.UserByUsername(ctx, username); exists {
		return 0, models.Invalid("UsernameAlreadyExists")
	}

	hash, err := db.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.users.CreateUser(ctx, username, hash, models.RoleEmployee)
	if errors.Is(err, db.ErrDuplicate) {
		return 0, models.Invalid("UsernameAlreadyExists")
	}
	if err != nil {
		return 0, err
	}
	logger.Log.Infow("user registered", "user_id", id, "username", username)
	return id, nil
}

// Authenticate checks the credentials and returns the principal for the
// session. Unknown users still pay for one bcrypt comparison.
func (s *Service) Authenticate(ctx context.Context, username, password string) (models.Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.Principal{}, models.Invalid("CredentialsRequired")
	}

	user, found := s.users.UserByUsername(ctx, username)
	targetHash := user.PasswordHash
	if !found {
		targetHash = db.DummyHash
	}
	match := db.CheckPasswordHash(password, targetHash)
	if !found || !match {
		logger.Log.Infow("login failed", "username", username)
		return models.Principal{}, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		logger.Log.Warnw("could not record last login", "user_id", user.ID, "error", err)
	}

	return models.Principal{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Authorize checks p against required. models.AnyRole only requires some
// authenticated principal.
func Authorize(p *models.Principal, required models.Role) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if required == models.AnyRole || p.Role == required {
		return nil
	}
	return &AccessDenied{Required: required, Redirect: p.Role.HomePath()}
}
