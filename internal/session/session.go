// Package session builds the cookie session store and exposes helpers for the
// signed-in user id kept in it.
package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

// DefaultName is the cookie name used when none is configured.
const DefaultName = "volta_session"

const userIDKey = "user_id"

// Config controls how sessions are stored and how the cookie is issued.
type Config struct {
	// Secret signs the cookie. Required.
	Secret string
	// RedisURL selects the Redis backend when non-empty; otherwise all
	// values travel in the signed cookie.
	RedisURL string
	// MaxAge is the cookie lifetime in seconds.
	MaxAge int
	// Secure marks the cookie Secure and relaxes SameSite to None so a
	// front-end on another origin can send it.
	Secure bool
}

// Store is a sessions.Store with an optional readiness check and cleanup.
type Store struct {
	sessions.Store
	redis *RedisStore
}

// Open builds the store described by cfg.
func Open(cfg Config) (*Store, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session.Open: secret is required")
	}
	opts := cookieOptions(cfg)

	if cfg.RedisURL == "" {
		cs := sessions.NewCookieStore([]byte(cfg.Secret))
		cs.Options = opts
		cs.MaxAge(opts.MaxAge)
		return &Store{Store: cs}, nil
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("session.Open: parse redis url: %w", err)
	}
	rs := NewRedisStore(redis.NewClient(redisOpts), []byte(cfg.Secret))
	rs.Options = opts
	rs.MaxAge(opts.MaxAge)
	return &Store{Store: rs, redis: rs}, nil
}

// Ping reports whether the backing store is reachable. The cookie backend is
// always ready.
func (s *Store) Ping(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Ping(ctx)
}

// Close releases the Redis connection pool, if any.
func (s *Store) Close() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}

func cookieOptions(cfg Config) *sessions.Options {
	opts := &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.Secure {
		opts.SameSite = http.SameSiteNoneMode
	}
	return opts
}

// UserID returns the signed-in user id, or "" when the session has none.
func UserID(s *sessions.Session) string {
	id, _ := s.Values[userIDKey].(string)
	return id
}

// SetUserID records id as the signed-in user.
func SetUserID(s *sessions.Session, id string) {
	s.Values[userIDKey] = id
}

// Renew drops everything the session carried before sign-in so the caller
// can store a new identity in it. On the Redis backend the old record is
// deleted and Save issues a fresh id; on the cookie backend the values are
// the session, so emptying them is enough.
func Renew(ctx context.Context, s *sessions.Session) error {
	if rs, ok := s.Store().(*RedisStore); ok && s.ID != "" {
		if err := rs.forget(ctx, s.ID); err != nil {
			return fmt.Errorf("session.Renew: %w", err)
		}
	}
	for k := range s.Values {
		delete(s.Values, k)
	}
	s.ID = ""
	s.IsNew = true
	return nil
}

// Clear removes every value from the session and expires its cookie.
func Clear(s *sessions.Session) {
	for k := range s.Values {
		delete(s.Values, k)
	}
	s.Options.MaxAge = -1
}
