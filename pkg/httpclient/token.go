package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ghuser/hmjoarksink/pkg/logger"
)

const (
	tokenLeeway       = 10 * time.Second
	tokenStoreTimeout = 2 * time.Second
)

// TokenStore shares tokens between replicas. *cache.TokenCache implements it.
type TokenStore interface {
	Get(ctx context.Context, scope string) (*oauth2.Token, error)
	Set(ctx context.Context, scope string, tok *oauth2.Token) error
}

// OAuthConfig holds the client credentials for the identity provider.
type OAuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// NewTokenSource returns a client-credentials token source for scope. When
// store is non-nil tokens are looked up there before the identity provider
// is asked, and fresh tokens are written back.
func NewTokenSource(cfg OAuthConfig, scope string, store TokenStore, log logger.Logger) oauth2.TokenSource {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       []string{scope},
	}
	src := cc.TokenSource(context.Background())
	if store == nil {
		return src
	}
	return oauth2.ReuseTokenSourceWithExpiry(nil, &sharedTokenSource{
		scope: scope,
		store: store,
		next:  src,
		log:   log,
		now:   time.Now,
	}, tokenLeeway)
}

type sharedTokenSource struct {
	scope string
	store TokenStore
	next  oauth2.TokenSource
	log   logger.Logger
	now   func() time.Time
}

func (s *sharedTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), tokenStoreTimeout)
	defer cancel()

	tok, err := s.store.Get(ctx, s.scope)
	switch {
	case err == nil && tok.Expiry.After(s.now().Add(tokenLeeway)):
		return tok, nil
	case err != nil && !errors.Is(err, redis.Nil) && s.log != nil:
		s.log.WarnContext(ctx, "token store lookup failed", "scope", s.scope, "error", err)
	}

	tok, err = s.next.Token()
	if err != nil {
		return nil, fmt.Errorf("fetch token for %s: %w", s.scope, err)
	}
	if err := s.store.Set(ctx, s.scope, tok); err != nil && s.log != nil {
		s.log.WarnContext(ctx, "token store write failed", "scope", s.scope, "error", err)
	}
	return tok, nil
}
