package auth

import (
	"context"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"vendex/crypto"
	"vendex/models"
)

const SessionName = "vendex-session"

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string // success, info, warning, danger
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// Sessions keeps the principal in a signed and encrypted cookie.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(keys crypto.Keys, maxAge time.Duration, secure bool) *Sessions {
	store := sessions.NewCookieStore(keys.SessionAuth, keys.SessionEnc)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)
	return &Sessions{store: store}
}

func (s *Sessions) get(r *http.Request) *sessions.Session {
	// Get returns a fresh session together with a decode error for tampered
	// or expired cookies, which is the same as being logged out.
	session, _ := s.store.Get(r, SessionName)
	return session
}

func (s *Sessions) Save(w http.ResponseWriter, r *http.Request, p models.Principal) error {
	session := s.get(r)
	session.Values["userID"] = p.UserID
	session.Values["username"] = p.Username
	session.Values["role"] = string(p.Role)
	return session.Save(r, w)
}

// Load returns the principal stored in the request cookie.
func (s *Sessions) Load(r *http.Request) (models.Principal, bool) {
	session := s.get(r)
	id, ok := session.Values["userID"].(int64)
	if !ok || id == 0 {
		return models.Principal{}, false
	}
	username, _ := session.Values["username"].(string)
	role := models.Role(stringValue(session.Values["role"]))
	if !role.Valid() {
		return models.Principal{}, false
	}
	return models.Principal{UserID: id, Username: username, Role: role}, true
}

// Clear logs the principal out. Pending flashes survive so the goodbye
// message can be shown.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	session := s.get(r)
	delete(session.Values, "userID")
	delete(session.Values, "username")
	delete(session.Values, "role")
	return session.Save(r, w)
}

func (s *Sessions) AddFlash(w http.ResponseWriter, r *http.Request, f Flash) error {
	session := s.get(r)
	session.AddFlash(f)
	return session.Save(r, w)
}

// Flashes pops the pending flash messages.
func (s *Sessions) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	session := s.get(r)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	session.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

type principalKey struct{}

// WithPrincipal attaches the authenticated principal to the request context.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the request principal, or nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *models.Principal {
	p, ok := ctx.Value(principalKey{}).(models.Principal)
	if !ok {
		return nil
	}
	return &p
}
