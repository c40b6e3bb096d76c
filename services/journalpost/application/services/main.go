package services

import (
	"fmt"

	"github.com/ghuser/hmjoarksink/pkg/app"
	"github.com/ghuser/hmjoarksink/pkg/httpclient"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/dokarkiv"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/forsteside"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/pdf"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/persistence/postgres"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/saf"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/soknadapi"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Journalpost *JournalpostService
	Soknader    *postgres.SoknadRepository
}

// New wires the journalpost services with infrastructure from the Application container.
func New(a *app.Application) (*Services, error) {
	cfg := a.Config
	clients := []struct {
		name, baseURL, scope string
	}{
		{"dokarkiv", cfg.DokarkivBaseURL, cfg.DokarkivScope},
		{"saf-graphql", cfg.SafGraphQLURL, cfg.SafScope},
		{"saf-rest", cfg.SafRestURL, cfg.SafScope},
		{"soknad-pdfgen", cfg.SoknadPdfGeneratorBaseURL, ""},
		{"pdfgen", cfg.PdfGeneratorBaseURL, ""},
		{"foerstesidegenerator", cfg.ForstesideBaseURL, cfg.ForstesideScope},
		{"soknad-api", cfg.SoknadAPIBaseURL, cfg.SoknadAPIScope},
	}
	built := make(map[string]*httpclient.Client, len(clients))
	for _, c := range clients {
		hc, err := a.HTTPClient(c.name, c.baseURL, c.scope)
		if err != nil {
			return nil, fmt.Errorf("journalpost services: %w", err)
		}
		built[c.name] = hc
	}

	svc := NewJournalpostService(
		dokarkiv.New(built["dokarkiv"], a.Logger),
		saf.New(built["saf-graphql"], built["saf-rest"], a.Logger),
		pdf.New(built["soknad-pdfgen"], built["pdfgen"], a.Logger),
		forsteside.New(built["foerstesidegenerator"], a.Logger),
		soknadapi.New(built["soknad-api"], a.Logger),
		a.Metrics,
		a.Logger,
	)
	return &Services{
		Journalpost: svc,
		Soknader:    postgres.NewSoknadRepository(a.Db, a.EventBus, cfg.RapidTopic),
	}, nil
}
