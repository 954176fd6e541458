package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vendex/crypto"
	"vendex/db"
	"vendex/models"
)

func TestMain(m *testing.M) {
	db.HashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func newService(t *testing.T) *Service {
	t.Helper()
	store, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "auth.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(store)
}

func validationKey(t *testing.T, err error) string {
	t.Helper()
	key, ok := models.IsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return key
}

func TestRegisterThenAuthenticate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, tc := range []struct{ username, password string }{
		{"alice", "secret1"},
		{"bob the builder", "123456"},
		{"Zoë", "pässwörd"},
	} {
		id, err := svc.Register(ctx, tc.username, tc.password, tc.password)
		require.NoError(t, err, tc.username)
		assert.NotZero(t, id)

		p, err := svc.Authenticate(ctx, tc.username, tc.password)
		require.NoError(t, err, tc.username)
		assert.Equal(t, id, p.UserID)
		assert.Equal(t, tc.username, p.Username)
		assert.Equal(t, models.RoleEmployee, p.Role)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol", "secret1", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name                        string
		username, password, confirm string
		wantKey                     string
	}{
		{"empty username", "   ", "secret1", "secret1", "UsernamePasswordRequired"},
		{"empty password", "dave", "", "", "UsernamePasswordRequired"},
		{"mismatch", "dave", "secret1", "secret2", "PasswordsDoNotMatch"},
		{"too short", "dave", "12345", "12345", "PasswordTooShort"},
		{"duplicate", "carol", "another1", "another1", "UsernameAlreadyExists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password, tt.confirm)
			assert.Equal(t, tt.wantKey, validationKey(t, err))
		})
	}

	// usernames are case-sensitive
	_, err = svc.Register(ctx, "Carol", "secret1", "secret1")
	assert.NoError(t, err)
}

func TestAuthenticateFailures(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "admin", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ADMIN", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "", "")
	assert.Equal(t, "CredentialsRequired", validationKey(t, err))
}

func TestAuthenticateSeededRoles(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for username, want := range map[string]struct {
		password string
		role     models.Role
	}{
		"admin":     {"admin123", models.RoleAdmin},
		"vendor1":   {"vendor123", models.RoleVendor},
		"employee1": {"emp123", models.RoleEmployee},
	} {
		p, err := svc.Authenticate(ctx, username, want.password)
		require.NoError(t, err)
		assert.Equal(t, want.role, p.Role)
	}
}

func TestAuthorize(t *testing.T) {
	admin := &models.Principal{UserID: 1, Username: "admin", Role: models.RoleAdmin}
	vendor := &models.Principal{UserID: 2, Username: "vendor1", Role: models.RoleVendor}
	employee := &models.Principal{UserID: 3, Username: "employee1", Role: models.RoleEmployee}

	assert.ErrorIs(t, Authorize(nil, models.AnyRole), ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(nil, models.RoleAdmin), ErrUnauthenticated)

	for _, p := range []*models.Principal{admin, vendor, employee} {
		assert.NoError(t, Authorize(p, models.AnyRole))
		assert.NoError(t, Authorize(p, p.Role))
	}

	tests := []struct {
		name         string
		principal    *models.Principal
		required     models.Role
		wantRedirect string
	}{
		{"employee on admin page", employee, models.RoleAdmin, "/dashboard"},
		{"employee on vendor page", employee, models.RoleVendor, "/dashboard"},
		{"vendor on admin page", vendor, models.RoleAdmin, "/vendor_update"},
		{"admin on employee page", admin, models.RoleEmployee, "/admin"},
		{"admin on vendor page", admin, models.RoleVendor, "/admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, tt.required)
			var denied *AccessDenied
			require.True(t, errors.As(err, &denied))
			assert.Equal(t, tt.wantRedirect, denied.Redirect)
			assert.Equal(t, tt.required, denied.Required)
		})
	}
}

type stubUsers struct {
	user    models.User
	found   bool
	touched int
}

func (s *stubUsers) UserByUsername(context.Context, string) (models.User, bool) {
	return s.user, s.found
}

func (s *stubUsers) CreateUser(context.Context, string, string, models.Role) (int64, error) {
	return 0, db.ErrDuplicate
}

func (s *stubUsers) TouchLastLogin(context.Context, int64, time.Time) error {
	s.touched++
	return errors.New("read-only")
}

func TestRegisterDuplicateRace(t *testing.T) {
	svc := NewService(&stubUsers{})
	_, err := svc.Register(context.Background(), "eve", "secret1", "secret1")
	assert.Equal(t, "UsernameAlreadyExists", validationKey(t, err))
}

func TestAuthenticateIgnoresLastLoginFailure(t *testing.T) {
	hash, err := db.HashPassword("secret1")
	require.NoError(t, err)
	users := &stubUsers{found: true, user: models.User{ID: 7, Username: "eve", PasswordHash: hash, Role: models.RoleVendor}}

	p, err := NewService(users).Authenticate(context.Background(), "eve", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, p.Role)
	assert.Equal(t, 1, users.touched)
}

func TestSessionManagement(t *testing.T) {
	sessions := NewSessions(crypto.DeriveKeys("test-secret-key"), time.Hour, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	want := models.Principal{UserID: 42, Username: "vendor1", Role: models.RoleVendor}
	require.NoError(t, sessions.Save(w, r, want))

	r2 := httptest.NewRequest("GET", "/", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}
	got, ok := sessions.Load(r2)
	require.True(t, ok)
	assert.Equal(t, want, got)

	w2 := httptest.NewRecorder()
	require.NoError(t, sessions.Clear(w2, r2))
	r3 := httptest.NewRequest("GET", "/", nil)
	for _, c := range w2.Result().Cookies() {
		r3.AddCookie(c)
	}
	_, ok = sessions.Load(r3)
	assert.False(t, ok)
}

func TestSessionRejectsForeignCookie(t *testing.T) {
	issuer := NewSessions(crypto.DeriveKeys("one-secret"), time.Hour, false)
	verifier := NewSessions(crypto.DeriveKeys("another-secret"), time.Hour, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	require.NoError(t, issuer.Save(w, r, models.Principal{UserID: 1, Username: "admin", Role: models.RoleAdmin}))

	r2 := httptest.NewRequest("GET", "/", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}
	_, ok := verifier.Load(r2)
	assert.False(t, ok)
}

func TestFlashes(t *testing.T) {
	sessions := NewSessions(crypto.DeriveKeys("flash-secret"), time.Hour, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	require.NoError(t, sessions.AddFlash(w, r, Flash{Category: "success", Message: "Saved"}))

	r2 := httptest.NewRequest("GET", "/", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}
	flashes := sessions.Flashes(httptest.NewRecorder(), r2)
	require.Len(t, flashes, 1)
	assert.Equal(t, "Saved", flashes[0].Message)
	assert.Equal(t, "success", flashes[0].Category)
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, PrincipalFrom(ctx))

	ctx = WithPrincipal(ctx, models.Principal{UserID: 9, Username: "x", Role: models.RoleEmployee})
	p := PrincipalFrom(ctx)
	require.NotNil(t, p)
	assert.Equal(t, int64(9), p.UserID)
}
