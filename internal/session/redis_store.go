package session

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a gorilla/sessions Store that keeps session values in Redis.
// The cookie only carries the signed session id.
type RedisStore struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options

	client redis.UniversalClient
	prefix string
	// idleTTL bounds browser-session cookies (MaxAge 0), which would otherwise
	// leave keys in Redis forever.
	idleTTL time.Duration
}

// NewRedisStore returns a RedisStore. keyPairs are passed to securecookie in
// the same way as sessions.NewCookieStore: hash key, optional block key,
// repeated for rotation.
func NewRedisStore(client redis.UniversalClient, keyPairs ...[]byte) *RedisStore {
	s := &RedisStore{
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:   "/",
			MaxAge: 86400 * 30,
		},
		client:  client,
		prefix:  "session:",
		idleTTL: 24 * time.Hour,
	}
	s.MaxAge(s.Options.MaxAge)
	return s
}

// MaxAge sets the maximum age for the store and its codecs.
func (s *RedisStore) MaxAge(age int) {
	s.Options.MaxAge = age
	for _, c := range s.Codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
			// Values live in Redis, so the cookie size limit does not apply to them.
			sc.MaxLength(0)
		}
	}
}

// Get returns a cached session for the request or loads it.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns a session for name. A missing, forged or expired cookie yields
// a fresh session; a forged cookie also yields the decode error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		return session, err
	}

	found, err := s.load(r.Context(), session)
	if err != nil {
		return session, err
	}
	session.IsNew = !found
	return session, nil
}

// Save writes the session to Redis and refreshes the cookie. A negative
// MaxAge deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	ctx := r.Context()

	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.forget(ctx, session.ID); err != nil {
				return fmt.Errorf("session.RedisStore.Save: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.Values, s.Codecs...)
	if err != nil {
		return fmt.Errorf("session.RedisStore.Save: encode values: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), encoded, s.ttl(session)).Err(); err != nil {
		return fmt.Errorf("session.RedisStore.Save: set: %w", err)
	}

	cookie, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return fmt.Errorf("session.RedisStore.Save: encode id: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), cookie, session.Options))
	return nil
}

// Ping checks that Redis answers.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// forget deletes the server-side record for id.
func (s *RedisStore) forget(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("session.RedisStore.forget: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, session *sessions.Session) (bool, error) {
	data, err := s.client.Get(ctx, s.key(session.ID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session.RedisStore.load: %w", err)
	}
	if err := securecookie.DecodeMulti(session.Name(), data, &session.Values, s.Codecs...); err != nil {
		return false, fmt.Errorf("session.RedisStore.load: decode: %w", err)
	}
	return true, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) ttl(session *sessions.Session) time.Duration {
	if session.Options.MaxAge > 0 {
		return time.Duration(session.Options.MaxAge) * time.Second
	}
	return s.idleTTL
}
