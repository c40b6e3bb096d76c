package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

const (
	// TokenLeeway is subtracted from a token's expiry before it is cached so
	// a cached token is never handed out in its last seconds.
	TokenLeeway = 10 * time.Second

	tokenCacheKeyPrefix = "token"
)

// TokenCache shares OAuth2 access tokens between replicas.
// Tokens are stored as a Redis hash keyed by scope.
// Key format: "hm-joark-sink:token:{scope}"
type TokenCache struct {
	client *RedisClient
	now    func() time.Time
}

// NewTokenCache creates a new TokenCache backed by the given RedisClient.
func NewTokenCache(r *RedisClient) *TokenCache {
	return &TokenCache{client: r, now: time.Now}
}

// Get returns the cached token for scope.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *TokenCache) Get(ctx context.Context, scope string) (*oauth2.Token, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(scope)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get token: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	expiry, err := time.Parse(time.RFC3339Nano, vals["expiry"])
	if err != nil {
		return nil, fmt.Errorf("cache parse expiry: %w", err)
	}
	return &oauth2.Token{
		AccessToken: vals["access_token"],
		TokenType:   vals["token_type"],
		Expiry:      expiry,
	}, nil
}

// Set stores tok until shortly before it expires. Tokens that are already
// inside the leeway are not stored.
func (c *TokenCache) Set(ctx context.Context, scope string, tok *oauth2.Token) error {
	ttl := tokenTTL(c.now(), tok)
	if ttl <= 0 {
		return nil
	}
	key := c.key(scope)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"access_token", tok.AccessToken,
		"token_type", tok.TokenType,
		"expiry", tok.Expiry.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set token: %w", err)
	}
	return nil
}

// Delete removes the cached token for scope.
func (c *TokenCache) Delete(ctx context.Context, scope string) error {
	if err := c.client.Client().Del(ctx, c.key(scope)).Err(); err != nil {
		return fmt.Errorf("cache delete token: %w", err)
	}
	return nil
}

func (c *TokenCache) key(scope string) string {
	return Key(tokenCacheKeyPrefix, scope)
}

func tokenTTL(now time.Time, tok *oauth2.Token) time.Duration {
	if tok == nil || tok.AccessToken == "" || tok.Expiry.IsZero() {
		return 0
	}
	return tok.Expiry.Sub(now) - TokenLeeway
}
