// ABOUTME: Session store owning authenticated identity and token lifecycle
// ABOUTME: Derives admin privilege by probing the admin-only endpoint

package session

import (
	"context"
	"strings"
	"sync"

	"github.com/siteseo/siteseo-cli/internal/apierr"
	"github.com/siteseo/siteseo-cli/internal/debuglog"
)

// Identity describes who is logged in. IsAdmin is derived by probe, never
// taken from the login response.
type Identity struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Gateway is the slice of the API client the session store drives.
type Gateway interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	RegisterAccount(ctx context.Context, username, email, password string) error
	OwnProfile(ctx context.Context) (string, error)
	AdminProbe(ctx context.Context) error
	SetToken(token string)
	ClearToken()
	OnUnauthorized(fn func())
}

// Store is the single source of truth for the current session. Identity
// and token are set and cleared together; one is never present without the
// other.
type Store struct {
	gw    Gateway
	creds *CredentialFile

	mu       sync.RWMutex
	identity *Identity
	token    string
	pending  bool
}

// New creates a session store and registers its forced-logout with the
// gateway's 401 hook.
func New(gw Gateway, creds *CredentialFile) *Store {
	s := &Store{gw: gw, creds: creds}
	gw.OnUnauthorized(s.Logout)
	return s
}

// Identity returns a copy of the current identity, or nil when logged out.
func (s *Store) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	ident := *s.identity
	return &ident
}

// Token returns the current credential token, or empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Pending reports whether a login or registration round-trip is in flight.
func (s *Store) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// IsAuthenticated reports whether a session is established.
func (s *Store) IsAuthenticated() bool {
	return s.Identity() != nil
}

// IsAdmin reports whether the current session has admin privilege.
func (s *Store) IsAdmin() bool {
	ident := s.Identity()
	return ident != nil && ident.IsAdmin
}

// Login exchanges credentials for a token, persists it, and derives admin
// privilege by probing the admin endpoint. A failed probe is the normal
// signal for a non-admin user, not a login failure. On a failed credential
// exchange nothing is persisted and the session stays unset.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.setPending(true)
	defer s.setPending(false)

	token, err := s.gw.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}

	s.gw.SetToken(token)
	ident := Identity{Username: username}
	s.persist(ident, token)
	s.set(&ident, token)

	if err := s.gw.AdminProbe(ctx); err == nil {
		ident.IsAdmin = true
		s.persist(ident, token)
		s.set(&ident, token)
	}
	return nil
}

// Register creates an account and immediately logs in with the same
// credentials.
func (s *Store) Register(ctx context.Context, username, email, password string) error {
	if err := validateRegistration(username, email, password); err != nil {
		return err
	}

	s.setPending(true)
	defer s.setPending(false)

	if err := s.gw.RegisterAccount(ctx, username, email, password); err != nil {
		return err
	}
	return s.Login(ctx, username, password)
}

// Logout clears the persisted record and in-memory state unconditionally.
func (s *Store) Logout() {
	if err := s.creds.Clear(); err != nil {
		debuglog.Error("clear credentials", err)
	}
	s.gw.ClearToken()
	s.set(nil, "")
}

// CheckAuth resolves a persisted token at startup. A token that no longer
// works clears the record, leaving the session equivalent to post-logout.
// This is the sole self-healing path for stale sessions; it never faults.
func (s *Store) CheckAuth(ctx context.Context) error {
	rec, err := s.creds.Load()
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}

	s.gw.SetToken(rec.Token)
	username, err := s.gw.OwnProfile(ctx)
	if err != nil {
		debuglog.Error("resolve stored session", err)
		s.Logout()
		return nil
	}

	ident := Identity{Username: username}
	if err := s.gw.AdminProbe(ctx); err == nil {
		ident.IsAdmin = true
	}
	s.persist(ident, rec.Token)
	s.set(&ident, rec.Token)
	return nil
}

// set replaces identity and token together, preserving the invariant that
// neither exists without the other.
func (s *Store) set(ident *Identity, token string) {
	s.mu.Lock()
	s.identity = ident
	s.token = token
	s.mu.Unlock()
}

func (s *Store) setPending(v bool) {
	s.mu.Lock()
	s.pending = v
	s.mu.Unlock()
}

// persist writes the durable record. Persistence failures are logged, not
// fatal: the in-memory session is still valid for this process.
func (s *Store) persist(ident Identity, token string) {
	if err := s.creds.Save(Record{Identity: ident, Token: token}); err != nil {
		debuglog.Error("persist credentials", err)
	}
}

// validateRegistration applies the same client-side constraints as the
// registration form.
func validateRegistration(username, email, password string) error {
	switch {
	case strings.TrimSpace(username) == "":
		return apierr.ValidationField("username", "username is required")
	case strings.TrimSpace(email) == "" || !strings.Contains(email, "@"):
		return apierr.ValidationField("email", "a valid email is required")
	case len(password) < 6:
		return apierr.ValidationField("password", "password must be at least 6 characters")
	}
	return nil
}
