// Package redisstore keeps the state the browser tier held in local/session
// storage: the auth token with its cached user snapshot, the language
// preference, and the couple of CMS text fields the admin screens edit. It
// also serves as the gateway's short-TTL query cache.
package redisstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"makazi/internal/adapters/observability"
	"makazi/internal/domain"
)

type Store struct {
	c          *redis.Client
	sessionTTL time.Duration // fallback when the token carries no exp claim
}

func New(addr, pass string, db int, sessionTTL time.Duration) *Store {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Store{
		c:          redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		sessionTTL: sessionTTL,
	}
}

func (s *Store) Ping(ctx context.Context) error { return s.c.Ping(ctx).Err() }

// ---- generic JSON cache (domain.Cache) ----

func (s *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := s.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (s *Store) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, _ := json.Marshal(v)
	observability.ObserveCache("redis", "set")
	return s.c.Set(ctx, key, b, time.Duration(ttlSec)*time.Second).Err()
}

func (s *Store) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return s.c.Del(ctx, key).Err()
}

// ---- sessions (domain.SessionStore) ----

// Tokens are hashed before use as keys so a redis dump never contains usable
// bearer tokens.
func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}

func (s *Store) SaveSession(ctx context.Context, sess domain.Session) error {
	ttl := s.sessionTTL
	if exp := tokenExpiry(sess.Token); !exp.IsZero() {
		if d := time.Until(exp); d > 0 {
			ttl = d
		}
		sess.ExpiresAt = exp
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.c.Set(ctx, sessionKey(sess.Token), b, ttl).Err()
}

func (s *Store) GetSession(ctx context.Context, token string) (domain.Session, bool, error) {
	v, err := s.c.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}
	var sess domain.Session
	if err := json.Unmarshal(v, &sess); err != nil {
		return domain.Session{}, false, err
	}
	return sess, true, nil
}

func (s *Store) ClearSession(ctx context.Context, token string) error {
	key := sessionKey(token)
	if err := s.c.Del(ctx, key).Err(); err != nil {
		return err
	}
	return s.c.Del(ctx, key+":lang").Err()
}

// tokenExpiry reads the exp claim without verifying the signature. The
// gateway never validates upstream tokens; it only aligns the session TTL
// with the token's own lifetime.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// ---- per-session language preference ----

func (s *Store) SetLanguage(ctx context.Context, token, lang string) error {
	ttl, err := s.c.TTL(ctx, sessionKey(token)).Result()
	if err != nil || ttl <= 0 {
		ttl = s.sessionTTL
	}
	return s.c.Set(ctx, sessionKey(token)+":lang", lang, ttl).Err()
}

func (s *Store) Language(ctx context.Context, token string) (string, error) {
	v, err := s.c.Get(ctx, sessionKey(token)+":lang").Result()
	if err == redis.Nil {
		return "en", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// ---- CMS text fields (site-wide, no TTL) ----

func (s *Store) SetPageContent(ctx context.Context, key, text string) error {
	return s.c.Set(ctx, "cms:"+key, text, 0).Err()
}

func (s *Store) PageContent(ctx context.Context, key string) (string, error) {
	v, err := s.c.Get(ctx, "cms:"+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
