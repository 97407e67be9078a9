// Package redis implements durable session storage on Redis, for
// deployments where the scheduling client runs on shared or ephemeral
// machines and the session has to outlive the local filesystem.
//
// The token and the user record are kept under two separate keys, the
// same split the original client's browser storage had; Save writes
// them in one transaction so a half pair can only come from an external
// wipe, never from this store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/examdesk/examdesk-core/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// URL is a redis:// connection URL; when set it overrides the
	// individual settings below.
	URL string

	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the authentication password (empty if none).
	Password string

	// DB is the database number.
	DB int

	// KeyPrefix namespaces this client's keys.
	KeyPrefix string

	// DialTimeout is the timeout for establishing connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		KeyPrefix:    "examdesk",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE
// ══════════════════════════════════════════════════════════════════════════════

// SessionStore implements identity.SessionStorage on Redis.
type SessionStore struct {
	client   redis.UniversalClient
	tokenKey string
	userKey  string
}

var _ identity.SessionStorage = (*SessionStore)(nil)

// New connects to Redis and returns a SessionStore.
func New(cfg Config) (*SessionStore, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:         cfg.Addr(),
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "examdesk"
	}

	return &SessionStore{
		client:   redis.NewClient(opts),
		tokenKey: prefix + ":session:token",
		userKey:  prefix + ":session:user",
	}, nil
}

// NewWithClient wraps an existing client; tests use this with miniature
// or mock servers.
func NewWithClient(client redis.UniversalClient, keyPrefix string) *SessionStore {
	if keyPrefix == "" {
		keyPrefix = "examdesk"
	}
	return &SessionStore{
		client:   client,
		tokenKey: keyPrefix + ":session:token",
		userKey:  keyPrefix + ":session:user",
	}
}

// storedUser is the serialized user half of the pair.
type storedUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Type      string `json:"type"`
}

// Save writes both halves of the pair in one transaction.
func (s *SessionStore) Save(ctx context.Context, sess identity.Session) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey, sess.Token, 0)

	if sess.User != nil {
		data, err := json.Marshal(storedUser{
			ID:        int64(sess.User.ID),
			FirstName: sess.User.FirstName,
			LastName:  sess.User.LastName,
			Email:     sess.User.Email,
			Role:      sess.User.RawRole,
			Type:      string(sess.User.Type),
		})
		if err != nil {
			return fmt.Errorf("%w: marshal user: %v", identity.ErrStorage, err)
		}
		pipe.Set(ctx, s.userKey, data, 0)
	} else {
		pipe.Del(ctx, s.userKey)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: save session: %v", identity.ErrStorage, err)
	}
	return nil
}

// Load reads both keys and reports exactly what is stored, half pairs
// included.
func (s *SessionStore) Load(ctx context.Context) (identity.Session, error) {
	sess := identity.Session{}

	token, err := s.client.Get(ctx, s.tokenKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return identity.Empty(), fmt.Errorf("%w: load token: %v", identity.ErrStorage, err)
	}
	sess.Token = token

	raw, err := s.client.Get(ctx, s.userKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sess, nil
		}
		return identity.Empty(), fmt.Errorf("%w: load user: %v", identity.ErrStorage, err)
	}

	var u storedUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return identity.Empty(), fmt.Errorf("%w: parse stored user: %v", identity.ErrStorage, err)
	}
	sess.User = &identity.Identity{
		ID:        identity.UserID(u.ID),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		RawRole:   u.Role,
		Type:      identity.ParseRole(u.Type),
	}
	return sess, nil
}

// Clear deletes both keys.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.tokenKey, s.userKey).Err(); err != nil {
		return fmt.Errorf("%w: clear session: %v", identity.ErrStorage, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SessionStore) Close() error {
	return s.client.Close()
}
