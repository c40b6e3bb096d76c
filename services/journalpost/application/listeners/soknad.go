package listeners

import (
	"context"

	rapid "github.com/ghuser/hmjoarksink/pkg/events"
	"github.com/ghuser/hmjoarksink/services/journalpost/application/services"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/events"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
)

// soknadMottatt stores an application and forwards it as a Søknad event. The
// forward is staged in the same transaction as the insert, so it returns no
// outcomes for the router to publish.
func (l *Listeners) soknadMottatt(ctx context.Context, e *events.SoknadMottatt) ([]rapid.Outcome, error) {
	l.metrics.SoknadMottatt(ctx)
	soknadID := e.SoknadID()

	lagret, err := l.soknader.Lagre(ctx, &models.Soknad{
		SoknadID:     soknadID,
		FnrBruker:    e.FodselNrBruker,
		FnrInnsender: e.FodselNrInnsender,
		Data:         e.Soknad,
	}, rapid.Outcome{Key: e.FodselNrBruker, Event: events.NewSoknad(e, l.now())})
	if err != nil {
		return nil, err
	}
	if !lagret {
		l.log.WarnContext(ctx, "søknad er allerede lagret, hopper over", "soknad_id", soknadID)
		return nil, nil
	}
	l.log.InfoContext(ctx, "søknad lagret og videresendt", "soknad_id", soknadID)
	return nil, nil
}

// soknadFordeltGammelFlyt files an application routed to Gosys. The journal
// post stays in status MOTTATT for manual processing there.
func (l *Listeners) soknadFordeltGammelFlyt(ctx context.Context, e *events.SoknadFordeltGammelFlyt) ([]rapid.Outcome, error) {
	l.log.InfoContext(ctx, "søknad til arkivering mottatt",
		"soknad_id", e.SoknadID, "sakstype", e.BehovsmeldingType, "er_hast", *e.ErHast)

	journalpostID, err := l.svc.ArkiverBehovsmelding(ctx, services.ArkiverBehovsmelding{
		FnrBruker:          e.FodselNrBruker,
		SoknadID:           e.SoknadID,
		Sakstype:           e.Sakstype(),
		Dokumenttittel:     e.Dokumenttittel(),
		EksternReferanseID: e.SoknadID + "HJE-DIGITAL-SOKNAD",
	})
	if err != nil {
		return nil, err
	}

	return []rapid.Outcome{{Key: e.FodselNrBruker, Event: events.SoknadArkivert{
		Header:         rapid.NewHeader(events.EventSoknadArkivert),
		SoknadID:       e.SoknadID,
		FodselNrBruker: e.FodselNrBruker,
		FnrBruker:      e.FodselNrBruker,
		ErHast:         *e.ErHast,
		Sakstype:       e.Sakstype(),
		SoknadGjelder:  e.Dokumenttittel(),
		JoarkRef:       journalpostID,
	}}}, nil
}
