package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/examdesk/examdesk-core/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCESS GATE
// Two-level guard in front of protected operations. A missing session
// sends the caller to the login surface; an authenticated caller with
// the wrong role is sent back to the landing surface, silently.
// ══════════════════════════════════════════════════════════════════════════════

// Redirect names the surface a denied caller should be sent to.
type Redirect string

const (
	// RedirectLogin - caller has no session.
	RedirectLogin Redirect = "login"

	// RedirectLanding - caller is authenticated but not permitted.
	RedirectLanding Redirect = "landing"
)

// ErrNotAuthenticated is returned when no valid session exists.
var ErrNotAuthenticated = &DeniedError{Redirect: RedirectLogin, reason: "not authenticated"}

// DeniedError carries the redirect decision for a failed gate check.
type DeniedError struct {
	// Redirect is the surface the caller should land on.
	Redirect Redirect

	reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("auth: access denied (%s): %s", e.Redirect, e.reason)
}

// IsDenied reports whether err is a gate denial and returns it.
func IsDenied(err error) (*DeniedError, bool) {
	var denied *DeniedError
	if errors.As(err, &denied) {
		return denied, true
	}
	return nil, false
}

// Gate guards operations behind authentication and role checks.
type Gate struct {
	sessions *SessionStore
}

// NewGate creates a gate over the given session store.
func NewGate(sessions *SessionStore) *Gate {
	return &Gate{sessions: sessions}
}

// RequireAuthenticated checks durable storage for a full session pair.
// Failure means the caller belongs on the login surface.
func (g *Gate) RequireAuthenticated(ctx context.Context) error {
	if !g.sessions.IsAuthenticated(ctx) {
		return ErrNotAuthenticated
	}
	return nil
}

// RequireRole checks authentication first, then that the session user's
// type is in the allow-list. A role miss redirects to the landing
// surface, not to login: the caller is someone, just not the right
// someone.
func (g *Gate) RequireRole(ctx context.Context, allowed ...identity.Role) error {
	if err := g.RequireAuthenticated(ctx); err != nil {
		return err
	}

	sess := g.sessions.Current()
	if sess.User == nil {
		return ErrNotAuthenticated
	}
	if !sess.User.HasType(allowed...) {
		return &DeniedError{
			Redirect: RedirectLanding,
			reason:   fmt.Sprintf("role %s not in allow-list", sess.User.Type),
		}
	}
	return nil
}
