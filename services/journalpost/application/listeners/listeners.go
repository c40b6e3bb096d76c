// Package listeners binds rapid events to journalpost workflows. Every
// listener validates its typed payload, runs one workflow and returns the
// events to publish.
package listeners

import (
	"time"

	rapid "github.com/ghuser/hmjoarksink/pkg/events"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/pkg/telemetry"
	"github.com/ghuser/hmjoarksink/services/journalpost/application/services"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/events"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/repositories"
)

// Listener names. Each one is also the suffix of its consumer group.
const (
	SoknadFordeltGammelFlyt      = "soknad-fordelt-gammel-flyt"
	SakOpprettet                 = "sak-opprettet"
	JournalpostJournalfort       = "journalpost-journalfort"
	SakTilbakefort               = "sak-tilbakefort"
	OpprettEtterFeilregistrering = "opprett-etter-feilregistrering"
	KnyttTilNySak                = "knytt-til-ny-sak"
	BarnebrillerVedtak           = "barnebriller-vedtak"
	BarnebrillerResend           = "barnebriller-resend"
	BarnebrillerFeilregistrer    = "barnebriller-feilregistrer"
	BarnebrillerManueltVedtak    = "barnebriller-manuelt-vedtak"
	BarnebrillerAvvisning        = "barnebriller-avvisning"
	Brevsending                  = "brevsending"
	JournalfortNotat             = "journalfort-notat"
	NotatFeilregistrert          = "notat-feilregistrert"
	NotatOverstyrInnsyn          = "notat-overstyr-innsyn"
	SakAnnulert                  = "sak-annulert"
	BestillingAvvist             = "bestilling-avvist"
	SoknadMottak                 = "soknad-mottak"
)

// soknadForwardedMarker is set on applications this service has forwarded.
const soknadForwardedMarker = "@soknadId"

// Listeners holds the dependencies shared by every listener.
type Listeners struct {
	svc      *services.JournalpostService
	soknader repositories.SoknadRepository
	metrics  *telemetry.Metrics
	log      logger.Logger
	now      func() time.Time
}

// New returns the listener set. metrics may be nil.
func New(svc *services.JournalpostService, soknader repositories.SoknadRepository, metrics *telemetry.Metrics, log logger.Logger) *Listeners {
	return &Listeners{
		svc:      svc,
		soknader: soknader,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// All returns one listener per inbound event.
func (l *Listeners) All() []rapid.Listener {
	return []rapid.Listener{
		rapid.Listen(SoknadFordeltGammelFlyt, l.soknadFordeltGammelFlyt,
			rapid.OnEvents(events.EventSoknadFordeltGammelFlyt), rapid.SkipBy("soknadId")),
		rapid.Listen(SakOpprettet, l.sakOpprettet,
			rapid.OnEvents(events.EventSakOpprettet)),
		rapid.Listen(JournalpostJournalfort, l.journalpostJournalfort,
			rapid.OnEvents(events.EventJournalpostJournalfort), rapid.SkipBy("journalpostId")),
		rapid.Listen(SakTilbakefort, l.sakTilbakefort,
			rapid.OnEvents(events.EventSakTilbakefortGosys), rapid.SkipBy("joarkRef")),
		rapid.Listen(OpprettEtterFeilregistrering, l.opprettEtterFeilregistrering,
			rapid.OnEvents(events.EventFeilregistrertSakstilknytning), rapid.SkipBy("sakId")),
		rapid.Listen(KnyttTilNySak, l.knyttTilNySak,
			rapid.OnEvents(events.EventJournalposterKnyttetTilNySak)),
		rapid.Listen(BarnebrillerVedtak, l.barnebrillevedtak("%sBARNEBRILLEAPI"),
			rapid.OnEvents(events.EventBarnebrillevedtakOpprettet)),
		rapid.Listen(BarnebrillerResend, l.barnebrillevedtak("RE_%sBARNEBRILLEAPI"),
			rapid.OnEvents(events.EventBarnebrillevedtakRekjor)),
		rapid.Listen(BarnebrillerFeilregistrer, l.barnebrillerFeilregistrer,
			rapid.OnEvents(events.EventBarnebrillerFeilregistrer), rapid.SkipBy("eventId")),
		rapid.Listen(BarnebrillerManueltVedtak, l.manueltBarnebrillevedtak,
			rapid.OnEvents(events.EventManueltBarnebrillevedtak)),
		rapid.Listen(BarnebrillerAvvisning, l.brilleAvvisning,
			rapid.OnEvents(events.EventBrilleAvvisning)),
		rapid.Listen(Brevsending, l.brevsending,
			rapid.OnEvents(events.EventBrevsendingOpprettet)),
		rapid.Listen(JournalfortNotat, l.journalfortNotat,
			rapid.OnEvents(events.EventJournalfortNotatOpprettet)),
		rapid.Listen(NotatFeilregistrert, l.notatFeilregistrert,
			rapid.OnEvents(events.EventJournalfortNotatFeilregistrert)),
		rapid.Listen(NotatOverstyrInnsyn, l.notatOverstyrInnsyn,
			rapid.OnEvents(events.EventJournalfortNotatOverstyrInnsyn)),
		rapid.Listen(SakAnnulert, l.sakAnnulert,
			rapid.OnEvents(events.EventSakAnnulert)),
		rapid.Listen(BestillingAvvist, l.bestillingAvvist,
			rapid.OnEvents(events.EventBestillingAvvist), rapid.SkipBy("eventId")),
		rapid.Listen(SoknadMottak, l.soknadMottatt,
			rapid.AcceptWhen(func(env rapid.Envelope) bool {
				return env.Name == "" && !env.Has(soknadForwardedMarker)
			})),
	}
}

// Policies returns the failure policy per event. Conflicts are acked
// everywhere and input no workflow can handle is not retried. Workflows that
// read the archive back get five attempts.
func Policies(base time.Duration) *rapid.PolicyTable {
	permanent := []error{domain.ErrUnsupportedStatus, domain.ErrUnsupportedSakstype, domain.ErrNoDocuments}
	absorb := []error{domain.ErrConflict}

	standard := rapid.Policy{MaxAttempts: 3, BaseDelay: base, Permanent: permanent, Absorb: absorb}
	lookup := rapid.Policy{MaxAttempts: 5, BaseDelay: base, Permanent: permanent, Absorb: absorb}

	return rapid.NewPolicyTable(standard).Set(lookup,
		events.EventJournalpostJournalfort,
		events.EventSakTilbakefortGosys,
		events.EventFeilregistrertSakstilknytning,
		events.EventJournalposterKnyttetTilNySak,
	)
}
