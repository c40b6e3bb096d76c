package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ghuser/hmjoarksink/pkg/app"
	"github.com/ghuser/hmjoarksink/pkg/cache"
	"github.com/ghuser/hmjoarksink/pkg/config"
	"github.com/ghuser/hmjoarksink/pkg/database"
	"github.com/ghuser/hmjoarksink/pkg/events"
	"github.com/ghuser/hmjoarksink/pkg/httpx"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/pkg/telemetry"
	"github.com/ghuser/hmjoarksink/services/journalpost/application/listeners"
	appsvcs "github.com/ghuser/hmjoarksink/services/journalpost/application/services"
)

// retryBaseDelay is the first backoff step of the listener policies.
const retryBaseDelay = 2 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	secureLog, closeSecureLog, err := logger.NewSecure(cfg)
	if err != nil {
		log.Error("failed to open secure log", "error", err)
		os.Exit(1)
	}
	defer closeSecureLog() //nolint:errcheck

	skipList, err := events.ParseSkipList(cfg.SkipList)
	if err != nil {
		log.Error("invalid SKIP_LIST", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		log.Error("failed to create metrics", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close() //nolint:errcheck
	log.Info("database pool connected")

	// Outcomes and forwarded applications go through the outbox queue; the
	// forwarder delivers them to the rapid.
	eventBus, err := events.NewEventBusWithForwarder(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	if err := eventBus.StartForwarder(ctx); err != nil {
		log.Error("failed to start event forwarder", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Config:       cfg,
		Db:           pool,
		Logger:       log,
		SecureLogger: secureLog,
		EventBus:     eventBus,
		Redis:        redisClient,
		Metrics:      metrics,
	}

	router, err := newRouter(appConfig, skipList)
	if err != nil {
		log.Error("failed to wire listeners", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	if err := router.Run(ctx, eventBus); err != nil {
		log.Error("failed to register listeners", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	if len(skipList) > 0 {
		log.Info("skip list active", "events", len(skipList))
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName+"-worker"),
	)
	r.Get("/isalive", httpx.IsAlive)
	r.Get("/isready", httpx.IsReady(httpx.HealthChecks{
		Soknader:   pool,
		TokenCache: redisClient,
		Rapid:      eventBus,
	}))
	r.Get("/metrics", metricsHandler.ServeHTTP)

	srv := httpx.NewServer(cfg.WorkerHTTPAddr, r)
	go func() {
		log.Info("worker admin server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("worker admin server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("admin server forced shutdown", "error", err)
	}

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// newRouter wires every rapid listener with its failure policy.
func newRouter(a *app.Application, skip events.SkipList) (*events.Router, error) {
	svcs, err := appsvcs.New(a)
	if err != nil {
		return nil, err
	}
	ls := listeners.New(svcs.Journalpost, svcs.Soknader, a.Metrics, a.Logger)

	router := events.NewRouter(a.Config.RapidTopic, a.EventBus, a.Logger,
		events.WithPolicies(listeners.Policies(retryBaseDelay)),
		events.WithSkipList(skip),
		events.WithSecureLogger(a.SecureLogger),
		events.WithFailureHook(telemetry.CaptureListenerFailure),
	)
	router.Register(ls.All()...)
	return router, nil
}
