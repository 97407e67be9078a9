package identity

import (
	"context"
	"errors"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Session is the authenticated state of the client: an opaque bearer
// token and the identity it was issued for.
//
// Invariant: Token and User are present together or absent together.
// Construction goes through Authenticated/Empty so a half pair can only
// originate from corrupted durable storage, which Normalize repairs.
type Session struct {
	Token string
	User  *Identity
}

// Authenticated builds a session holding both halves of the pair.
func Authenticated(token string, user Identity) Session {
	return Session{Token: token, User: &user}
}

// Empty returns the unauthenticated session.
func Empty() Session {
	return Session{}
}

// IsAuthenticated reports whether both token and user are present.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// Normalize collapses any half pair to the empty session. Loading from
// durable storage goes through this so a wipe of one half is observed as
// a full logout, never as a partially authenticated state.
func (s Session) Normalize() Session {
	if !s.IsAuthenticated() {
		return Empty()
	}
	return s
}

// ══════════════════════════════════════════════════════════════════════════════
// DURABLE STORAGE
// ══════════════════════════════════════════════════════════════════════════════

// ErrStorage wraps failures of the durable session store.
var ErrStorage = errors.New("session storage error")

// SessionStorage is the durable home of the session pair, the analogue
// of the browser storage the original client kept its token in. It is a
// small interface so tests can substitute an in-memory fake.
//
// Load returns whatever is currently stored, including a half pair left
// by an external wipe; callers normalize. A store with nothing in it
// returns the empty session and no error.
type SessionStorage interface {
	Save(ctx context.Context, s Session) error
	Load(ctx context.Context) (Session, error)
	Clear(ctx context.Context) error
}
