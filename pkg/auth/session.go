// Package auth guards the internal journalpost API. An operator logs in with
// the admin API key and gets a session cookie; RequireAuth checks the cookie
// on the journalpost routes and puts the operator ident in the context.
package auth

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/hmjoarksink/pkg/cache"
	"github.com/ghuser/hmjoarksink/pkg/config"
)

const sessionKeyPart = "session"

// RedisStore is a sessions.Store that keeps operator sessions in Redis. The
// cookie carries only the signed and encrypted session id, so every replica
// of the API sees the same sessions.
//
// Keys are "hm-joark-sink:session:<id>" and expire with the session.
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options *sessions.Options
}

// NewSessionStore returns a store using the session keys and max age in cfg.
// Cookies are marked Secure outside development and testing.
//
//	store := auth.NewSessionStore(redisClient.Client(), cfg)
//	r.Post("/session", handlers.NewPostSessionHandler(store, cfg.AdminAPIKey, log).Execute)
func NewSessionStore(client *redis.Client, cfg *config.Config) *RedisStore {
	maxAge := cfg.SessionMaxAge
	if maxAge <= 0 {
		maxAge = 8 * time.Hour
	}
	return &RedisStore{
		client: client,
		codecs: securecookie.CodecsFromPairs([]byte(cfg.SessionAuthKey), []byte(cfg.SessionEncryptionKey)),
		options: &sessions.Options{
			Path:     "/internal",
			MaxAge:   int(maxAge / time.Second),
			HttpOnly: true,
			Secure:   cfg.Environment == config.EnvProduction,
			SameSite: http.SameSiteStrictMode,
		},
	}
}

// Get returns the session registered for name on r.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. A missing, tampered or
// expired cookie, or a session gone from Redis, yields a fresh session.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	session.ID = id
	if err := s.load(r.Context(), session); err != nil {
		return session, nil
	}
	session.IsNew = false
	return session, nil
}

// Save writes the session to Redis and sets the cookie. A negative MaxAge
// logs the operator out: the key is deleted and the cookie cleared.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.client.Del(r.Context(), s.key(session.ID)).Err(); err != nil {
				return fmt.Errorf("delete operator session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)),
			"=",
		)
	}

	if err := s.save(r.Context(), session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) key(id string) string {
	return cache.Key(sessionKeyPart, id)
}

func (s *RedisStore) save(ctx context.Context, session *sessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode operator session: %w", err)
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.client.Set(ctx, s.key(session.ID), buf.Bytes(), ttl).Err(); err != nil {
		return fmt.Errorf("store operator session: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, session *sessions.Session) error {
	data, err := s.client.Get(ctx, s.key(session.ID)).Bytes()
	if err != nil {
		return fmt.Errorf("load operator session: %w", err)
	}
	return gob.NewDecoder(bytes.NewReader(data)).Decode(&session.Values)
}
