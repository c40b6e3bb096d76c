package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/hmjoarksink/pkg/cache"
	"github.com/ghuser/hmjoarksink/pkg/config"
	"github.com/ghuser/hmjoarksink/pkg/database"
	"github.com/ghuser/hmjoarksink/pkg/events"
	"github.com/ghuser/hmjoarksink/pkg/httpclient"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/pkg/telemetry"
)

// Application holds shared infrastructure dependencies for all services.
// Both processes build one at startup and hand it to the service containers.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "journalpost opprettet", "journalpost_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Fødselsnummer and full payloads go to app.SecureLogger only.
type Application struct {
	Config       *config.Config
	Db           *database.Database
	Logger       logger.Logger
	SecureLogger logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	Metrics      *telemetry.Metrics
	SessionStore sessions.Store // Redis-backed session store; nil in worker process
}

// HTTPClient returns the outbound client for one downstream. Requests carry a
// client-credentials token for scope when OAuth is configured; tokens are
// shared through Redis when a.Redis is set.
func (a *Application) HTTPClient(name, baseURL, scope string) (*httpclient.Client, error) {
	cfg := a.Config
	hc := httpclient.Config{
		Name:       name,
		BaseURL:    baseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.HTTPMaxRetries,
		RateLimit:  cfg.HTTPRateLimit,
		Logger:     a.Logger,
	}
	if scope != "" && cfg.OAuthTokenURL != "" {
		var store httpclient.TokenStore
		if a.Redis != nil {
			store = cache.NewTokenCache(a.Redis)
		}
		hc.TokenSource = httpclient.NewTokenSource(httpclient.OAuthConfig{
			TokenURL:     cfg.OAuthTokenURL,
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
		}, scope, store, a.Logger)
	}
	return httpclient.New(hc)
}
