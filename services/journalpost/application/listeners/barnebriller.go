package listeners

import (
	"context"
	"fmt"

	rapid "github.com/ghuser/hmjoarksink/pkg/events"
	"github.com/ghuser/hmjoarksink/services/journalpost/application/services"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/builders"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/events"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
)

// manueltVedtakTittel is the document title published for manual decisions.
const manueltVedtakTittel = "Journalføring barnebrillevedtak"

// barnebrillevedtak archives an optician claim under eksternRefFormat, which
// takes the sakId. The resend listener uses its own prefix so a claim can be
// filed again.
func (l *Listeners) barnebrillevedtak(eksternRefFormat string) func(context.Context, *events.Barnebrillevedtak) ([]rapid.Outcome, error) {
	return func(ctx context.Context, e *events.Barnebrillevedtak) ([]rapid.Outcome, error) {
		l.log.InfoContext(ctx, "sak til journalføring barnebriller mottatt", "sak_id", e.SakID, "event_id", e.EventID)

		fysiskDokument, err := l.svc.GenererBarnebrillePdf(ctx, e.PdfData())
		if err != nil {
			return nil, err
		}
		b := builders.NewOpprettJournalpost(e.Fnr, e.Fnr, e.Dokumenttype(), models.JournalposttypeInngaaende,
			fmt.Sprintf(eksternRefFormat, e.SakID)).
			Dokument(fysiskDokument).
			OptikerFagsak(e.SakID).
			DatoMottatt(e.OpprettetDato.Time)
		resp, err := l.svc.OpprettOgFerdigstillJournalpost(ctx, b)
		if err != nil {
			return nil, err
		}

		return []rapid.Outcome{{Key: e.Fnr, Event: events.OpprettetOgFerdigstiltBarnebrillerJournalpost{
			Header:         rapid.NewHeader(events.EventOpprettetOgFerdigstiltBarnebrillerJournalpost),
			Fnr:            e.Fnr,
			Orgnr:          e.Orgnr,
			SakID:          e.SakID,
			JoarkRef:       resp.JournalpostID,
			DokumentIder:   resp.DokumentIDer(),
			DokumentTittel: e.Dokumenttype().Tittel(),
			Opprettet:      l.now(),
		}}}, nil
	}
}

func (l *Listeners) barnebrillerFeilregistrer(ctx context.Context, e *events.BarnebrillerFeilregistrer) ([]rapid.Outcome, error) {
	l.log.InfoContext(ctx, "feilregistrerer barnebrillesak",
		"event_id", e.EventID, "sak_id", e.SakID, "journalpost_id", e.JoarkRef)
	if err := l.svc.FeilregistrerSakstilknytning(ctx, e.JoarkRef); err != nil {
		return nil, err
	}
	return []rapid.Outcome{{Key: e.SakID, Event: events.BarnebrillerJournalpostFeilregistrert{
		Header:   rapid.NewHeader(events.EventBarnebrillerJournalpostFeilregistrert),
		SakID:    e.SakID,
		JoarkRef: e.JoarkRef,
	}}}, nil
}

func (l *Listeners) manueltBarnebrillevedtak(ctx context.Context, e *events.ManueltBarnebrillevedtak) ([]rapid.Outcome, error) {
	l.log.InfoContext(ctx, "manuelt barnebrillevedtak til journalføring mottatt",
		"sak_id", e.Saksnummer, "vedtaksstatus", e.Vedtaksstatus)

	b := builders.NewOpprettJournalpost(e.FnrBruker, e.FnrBruker, e.Dokumenttype(), models.JournalposttypeUtgaaende,
		e.Saksnummer+"BARNEBRILLEVEDTAK").
		Dokument(e.Pdf).
		Hotsak(e.Saksnummer).
		OpprettetAv(e.OpprettetAv)
	resp, err := l.svc.OpprettOgFerdigstillJournalpost(ctx, b)
	if err != nil {
		return nil, err
	}

	return []rapid.Outcome{{Key: e.FnrBruker, Event: events.OpprettetOgFerdigstiltBarnebrillevedtak{
		Header:         rapid.NewHeader(events.EventOpprettetOgFerdigstiltBarnebrillevedtak),
		Fnr:            e.FnrBruker,
		SakID:          e.Saksnummer,
		JoarkRef:       resp.JournalpostID,
		DokumentTittel: manueltVedtakTittel,
	}}}, nil
}

// brilleAvvisning files the letter sent to an optician when a claim was
// stopped. Nothing is published afterwards.
func (l *Listeners) brilleAvvisning(ctx context.Context, e *events.BrilleAvvisning) ([]rapid.Outcome, error) {
	l.log.InfoContext(ctx, "oppretter og journalfører avvisningsbrev", "event_id", e.EventID)

	resp, err := l.svc.JournalforAvvisningsbrev(ctx, services.Avvisningsbrev{
		FnrBarn:            e.FnrBarn,
		EksternReferanseID: e.EksternReferanseID(),
		DatoMottatt:        e.Opprettet.Time,
		Data:               e.Brevdata(),
	})
	if err != nil {
		return nil, err
	}
	l.log.InfoContext(ctx, "avvisningsbrev journalført", "event_id", e.EventID, "journalpost_id", resp.JournalpostID)
	return nil, nil
}
