// Package sessionfile persists the session pair as a JSON file in the
// user's home directory, the desktop analogue of the browser storage the
// scheduling client's session originally lived in.
package sessionfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/examdesk/examdesk-core/internal/domain/identity"
)

const sessionFile = "session.json"

// sessionDoc is the on-disk shape. Token and user are stored in one
// document, but either may independently be empty if the file was
// edited or truncated externally; Load reports what it finds and leaves
// normalization to the caller.
type sessionDoc struct {
	Token string   `json:"token,omitempty"`
	User  *userDoc `json:"user,omitempty"`
}

type userDoc struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Type      string `json:"type"`
}

// Store implements identity.SessionStorage on a mode-0600 file inside a
// mode-0700 directory.
type Store struct {
	path string
}

var _ identity.SessionStorage = (*Store)(nil)

// New creates a Store rooted at dir, creating the directory if needed.
// An empty dir defaults to ~/.examdesk.
func New(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".examdesk")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, sessionFile)}, nil
}

// Save writes the session pair atomically via a rename.
func (s *Store) Save(_ context.Context, sess identity.Session) error {
	doc := sessionDoc{Token: sess.Token}
	if sess.User != nil {
		doc.User = &userDoc{
			ID:        int64(sess.User.ID),
			FirstName: sess.User.FirstName,
			LastName:  sess.User.LastName,
			Email:     sess.User.Email,
			Role:      sess.User.RawRole,
			Type:      string(sess.User.Type),
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal session: %v", identity.ErrStorage, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: write session file: %v", identity.ErrStorage, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: replace session file: %v", identity.ErrStorage, err)
	}
	return nil
}

// Load reads whatever the file holds. A missing file is an empty
// session; an unreadable or unparseable file is a storage error.
func (s *Store) Load(_ context.Context) (identity.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return identity.Empty(), nil
		}
		return identity.Empty(), fmt.Errorf("%w: read session file: %v", identity.ErrStorage, err)
	}

	var doc sessionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return identity.Empty(), fmt.Errorf("%w: parse session file: %v", identity.ErrStorage, err)
	}

	sess := identity.Session{Token: doc.Token}
	if doc.User != nil {
		sess.User = &identity.Identity{
			ID:        identity.UserID(doc.User.ID),
			FirstName: doc.User.FirstName,
			LastName:  doc.User.LastName,
			Email:     doc.User.Email,
			RawRole:   doc.User.Role,
			Type:      identity.ParseRole(doc.User.Type),
		}
	}
	return sess, nil
}

// Clear removes the session file. A file that is already gone is not an
// error.
func (s *Store) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove session file: %v", identity.ErrStorage, err)
	}
	return nil
}
