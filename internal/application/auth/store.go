// Package auth contains the session lifecycle and the access gate that
// every protected operation passes through.
package auth

import (
	"context"
	"sync"

	"github.com/examdesk/examdesk-core/internal/domain/identity"
	"github.com/examdesk/examdesk-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE
// Single source of truth for the authenticated session. The token and the
// user record live and die together: a login commits both atomically, a
// failed login rolls both back, and a half pair found in storage is
// treated as no session at all.
// ══════════════════════════════════════════════════════════════════════════════

// IdentityAPI is the slice of the scheduling API the session store needs.
type IdentityAPI interface {
	// LoginPassword exchanges credentials for an access token.
	LoginPassword(ctx context.Context, email, password string) (string, error)

	// GoogleAuth exchanges a Google ID credential for an access token.
	GoogleAuth(ctx context.Context, credential string) (string, error)

	// ListUsers fetches the identity collection visible to the token.
	ListUsers(ctx context.Context, token string) ([]identity.Identity, error)
}

// SessionStore owns the current session and its durable copy.
type SessionStore struct {
	api     IdentityAPI
	storage identity.SessionStorage
	log     *logger.Logger

	mu      sync.RWMutex
	current identity.Session
}

// NewSessionStore creates a session store. It starts empty; call
// Rehydrate at bootstrap to restore a persisted session.
func NewSessionStore(api IdentityAPI, storage identity.SessionStorage, log *logger.Logger) *SessionStore {
	if log == nil {
		log = logger.Default()
	}
	return &SessionStore{
		api:     api,
		storage: storage,
		log:     log.With(logger.Component("session_store")),
		current: identity.Empty(),
	}
}

// Login sets the token speculatively, fetches the identity collection
// with it, and searches for the entry whose email equals the supplied
// one exactly (case-sensitive). On a match both halves are committed
// together; on no match or any fetch failure the whole session is
// rolled back to empty and false is returned.
func (s *SessionStore) Login(ctx context.Context, email, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = identity.Session{Token: token}
	if err := s.storage.Save(ctx, s.current); err != nil {
		s.log.Warn("speculative token save failed", logger.Err(err))
		s.rollbackLocked(ctx)
		return false
	}

	users, err := s.api.ListUsers(ctx, token)
	if err != nil {
		s.log.Warn("identity fetch failed during login", logger.Err(err))
		s.rollbackLocked(ctx)
		return false
	}

	for i := range users {
		if users[i].Email == email {
			u := users[i]
			s.current = identity.Authenticated(token, u)
			if err := s.storage.Save(ctx, s.current); err != nil {
				s.log.Warn("session commit failed", logger.Err(err))
				s.rollbackLocked(ctx)
				return false
			}
			s.log.Info("login succeeded",
				logger.Email(email),
				logger.RoleTag(string(u.Type)))
			return true
		}
	}

	s.log.Warn("no identity matched login email", logger.Email(email))
	s.rollbackLocked(ctx)
	return false
}

// LoginWithPassword obtains a token from the credential endpoint and
// runs the Login commit protocol with it.
func (s *SessionStore) LoginWithPassword(ctx context.Context, email, password string) bool {
	token, err := s.api.LoginPassword(ctx, email, password)
	if err != nil {
		s.log.Warn("password exchange failed", logger.Email(email), logger.Err(err))
		return false
	}
	return s.Login(ctx, email, token)
}

// GoogleLogin exchanges the external credential for an access token,
// recovers the email from the credential's own claims, and delegates to
// Login. A decode or exchange failure leaves the session untouched.
func (s *SessionStore) GoogleLogin(ctx context.Context, credential string) bool {
	email, err := CredentialEmail(credential)
	if err != nil {
		s.log.Warn("google credential decode failed", logger.Err(err))
		return false
	}

	token, err := s.api.GoogleAuth(ctx, credential)
	if err != nil {
		s.log.Warn("google token exchange failed", logger.Email(email), logger.Err(err))
		return false
	}
	return s.Login(ctx, email, token)
}

// Logout clears memory and durable storage unconditionally.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollbackLocked(ctx)
	s.log.Info("logged out")
}

// Rehydrate loads the persisted session at bootstrap. A half pair in
// storage is force-cleared everywhere rather than loaded. Calling it
// again with unchanged storage yields the same in-memory session.
func (s *SessionStore) Rehydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.storage.Load(ctx)
	if err != nil {
		s.log.Warn("session load failed, clearing", logger.Err(err))
		s.rollbackLocked(ctx)
		return
	}
	if !sess.IsAuthenticated() {
		if sess.Token != "" || sess.User != nil {
			s.log.Warn("half session found in storage, clearing")
		}
		s.rollbackLocked(ctx)
		return
	}
	s.current = sess
}

// IsAuthenticated re-reads durable storage on every call so an external
// wipe is observed immediately, not at the next login.
func (s *SessionStore) IsAuthenticated(ctx context.Context) bool {
	sess, err := s.storage.Load(ctx)
	if err != nil {
		return false
	}
	return sess.IsAuthenticated()
}

// Current returns the in-memory session.
func (s *SessionStore) Current() identity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the in-memory access token, empty when logged out.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// rollbackLocked clears both memory and storage. Callers hold s.mu.
func (s *SessionStore) rollbackLocked(ctx context.Context) {
	s.current = identity.Empty()
	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warn("session clear failed", logger.Err(err))
	}
}
