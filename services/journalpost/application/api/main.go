package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/hmjoarksink/pkg/app"
	"github.com/ghuser/hmjoarksink/pkg/auth"
	"github.com/ghuser/hmjoarksink/pkg/config"
	"github.com/ghuser/hmjoarksink/services/journalpost/application/handlers"
)

// InternalRoutes registers the operator endpoints on the provided chi router.
// The test API is not mounted in production.
func InternalRoutes(r chi.Router, a *app.Application) {
	r.Route("/internal", func(r chi.Router) {
		r.Post("/session", handlers.NewPostSessionHandler(a.SessionStore, a.Config.AdminAPIKey, a.Logger).Execute)
		if a.Config.Environment == config.EnvProduction {
			return
		}
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
			r.Post("/test-api", handlers.NewPostTestEventHandler(a.EventBus, a.Config.RapidTopic, a.Logger).Execute)
		})
	})
}
