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

// hotsakApplikasjon prefixes the additional information keys on notes.
const hotsakApplikasjon = "hotsak"

func (l *Listeners) sakOpprettet(ctx context.Context, e *events.SakOpprettet) ([]rapid.Outcome, error) {
	sakstype, err := e.Sakstype()
	if err != nil {
		return nil, err
	}
	dokumenttype := sakstype.Dokumenttype()
	l.log.InfoContext(ctx, "sak til journalføring mottatt",
		"soknad_id", e.SoknadID, "sak_id", e.SakID, "dokumenttype", dokumenttype)

	fysiskDokument, err := l.svc.HentBehovsmeldingPdf(ctx, e.SoknadID)
	if err != nil {
		return nil, err
	}
	b := builders.NewOpprettJournalpost(e.FnrBruker, e.FnrBruker, dokumenttype, models.JournalposttypeInngaaende, e.SoknadID+"HOTSAK").
		Dokument(fysiskDokument, builders.MedTittel(e.SoknadGjelder)).
		Hotsak(e.SakID)
	resp, err := l.svc.OpprettOgFerdigstillJournalpost(ctx, b)
	if err != nil {
		return nil, err
	}

	return []rapid.Outcome{{Key: e.FnrBruker, Event: events.OpprettetOgFerdigstiltJournalpost{
		Header:         rapid.NewHeader(events.EventOpprettetOgFerdigstiltJournalpost),
		SoknadID:       e.SoknadID,
		FodselNrBruker: e.FnrBruker,
		FnrBruker:      e.FnrBruker,
		JoarkRef:       resp.JournalpostID,
		SakID:          e.SakID,
		DokumentTittel: e.SoknadGjelder,
	}}}, nil
}

func (l *Listeners) journalpostJournalfort(ctx context.Context, e *events.JournalpostJournalfort) ([]rapid.Outcome, error) {
	l.log.InfoContext(ctx, "oppdaterer og ferdigstiller journalpost",
		"journalpost_id", e.JournalpostID, "sak_id", e.SakID, "oppgave_id", e.OppgaveID)

	nyJournalpostID, err := l.svc.FerdigstillJournalpost(ctx, services.FerdigstillJournalpost{
		JournalpostID:       e.JournalpostID,
		JournalforendeEnhet: e.JournalforendeEnhet,
		FnrBruker:           e.FnrBruker,
		SakID:               e.SakID,
		DokumentID:          e.DokumentID,
		Dokumenttittel:      e.Dokumenttittel,
	})
	if err != nil {
		return nil, err
	}

	return []rapid.Outcome{{Key: e.FnrBruker, Event: events.JournalpostOppdatertOgFerdigstilt{
		Header:              rapid.NewHeader(events.EventJournalpostOppdatertOgFerdigstilt),
		JournalpostID:       e.JournalpostID,
		JournalforendeEnhet: e.JournalforendeEnhet,
		NyJournalpostID:     nyJournalpostID,
		FnrBruker:           e.FnrBruker,
		SakID:               e.SakID,
		OppgaveID:           e.OppgaveID,
	}}}, nil
}

func (l *Listeners) sakTilbakefort(ctx context.Context, e *events.SakTilbakefortGosys) ([]rapid.Outcome, error) {
	sakstype, err := models.ParseSakstype(e.Sakstype)
	if err != nil {
		return nil, err
	}
	nyJournalpostID, err := l.svc.FeilregistrerOgErstatt(ctx, services.Erstatt{
		JournalpostID:  e.JoarkRef,
		SoknadID:       e.SoknadID,
		FnrBruker:      e.FnrBruker,
		Sakstype:       sakstype,
		Dokumenttittel: e.DokumentBeskrivelse,
	})
	if err != nil {
		return nil, err
	}

	return []rapid.Outcome{{Key: e.FnrBruker, Event: events.OpprettetMottattJournalpost{
		Header:              rapid.NewHeader(events.EventOpprettetMottattJournalpost),
		SoknadID:            e.SoknadID,
		FodselNrBruker:      e.FnrBruker,
		FnrBruker:           e.FnrBruker,
		JoarkRef:            nyJournalpostID,
		JournalpostID:       nyJournalpostID,
		SakID:               e.Saksnummer,
		Sakstype:            sakstype,
		DokumentBeskrivelse: e.DokumentBeskrivelse,
		Enhet:               e.Enhet,
		NavIdent:            e.NavIdent,
		ValgteArsaker:       nonNil(e.ValgteArsaker),
		Begrunnelse:         e.Begrunnelse,
		Prioritet:           e.Prioritet,
	}}}, nil
}

func (l *Listeners) opprettEtterFeilregistrering(ctx context.Context, e *events.FeilregistrertSakstilknytning) ([]rapid.Outcome, error) {
	sakstype, err := models.ParseSakstype(e.Sakstype)
	if err != nil {
		return nil, err
	}
	nyJournalpostID, err := l.svc.Erstatt(ctx, services.Erstatt{
		JournalpostID:  e.NyJournalpostID,
		SoknadID:       e.SoknadID,
		FnrBruker:      e.FnrBruker,
		Sakstype:       sakstype,
		Dokumenttittel: e.DokumentBeskrivelse,
	})
	if err != nil {
		return nil, err
	}

	return []rapid.Outcome{{Key: e.FnrBruker, Event: events.OpprettetMottattJournalpost{
		Header:              rapid.NewHeader(events.EventOpprettetMottattJournalpost),
		SoknadID:            e.SoknadID,
		FodselNrBruker:      e.FnrBruker,
		FnrBruker:           e.FnrBruker,
		JoarkRef:            nyJournalpostID,
		JournalpostID:       nyJournalpostID,
		SakID:               e.SakID,
		Sakstype:            sakstype,
		DokumentBeskrivelse: e.DokumentBeskrivelse,
		Enhet:               e.Enhet,
		NavIdent:            e.NavIdent,
		ValgteArsaker:       nonNil(e.ValgteArsaker),
		Begrunnelse:         e.Begrunnelse,
		SoknadJSON:          e.SoknadJSON,
	}}}, nil
}

func (l *Listeners) knyttTilNySak(ctx context.Context, e *events.JournalposterKnyttetTilNySak) ([]rapid.Outcome, error) {
	journalposter, err := l.svc.KnyttJournalposterTilNySak(ctx, services.KnyttTilNySak{
		FraSakID:            e.FraSakID,
		TilSakID:            e.TilSakID,
		FnrBruker:           e.FnrBruker,
		JournalforendeEnhet: e.JournalforendeEnhet,
	})
	if err != nil {
		return nil, err
	}
	l.log.InfoContext(ctx, "journalposter knyttet til ny sak",
		"fra_sak_id", e.FraSakID, "til_sak_id", e.TilSakID, "journalposter", journalposter)

	return []rapid.Outcome{{Key: e.FnrBruker, Event: events.JournalposterTilknyttetSak{
		Header:              rapid.NewHeader(events.EventJournalposterTilknyttetSak),
		FraSakID:            e.FraSakID,
		TilSakID:            e.TilSakID,
		FnrBruker:           e.FnrBruker,
		JournalforendeEnhet: e.JournalforendeEnhet,
		Journalposter:       journalposter,
	}}}, nil
}

func (l *Listeners) brevsending(ctx context.Context, e *events.BrevsendingOpprettet) ([]rapid.Outcome, error) {
	l.log.InfoContext(ctx, "brevsending opprettet",
		"sak_id", e.SakID, "dokumenttype", e.Dokumenttype, "brevsending_id", e.BrevsendingID)

	fysiskDokument := e.FysiskDokument
	if brevkode, ok := e.Dokumenttype.BrevkodeForEttersendelse(); ok {
		merged, err := l.svc.GenererForsteside(ctx, services.Forsteside{
			Tittel:         e.Dokumenttittel,
			FnrBruker:      e.FnrBruker,
			Sprakkode:      e.Sprakkode,
			Brevkode:       brevkode,
			FysiskDokument: e.FysiskDokument,
		})
		if err != nil {
			return nil, err
		}
		fysiskDokument = merged
	}

	b := builders.NewOpprettJournalpost(e.FnrBruker, e.FnrMottaker, e.Dokumenttype, models.JournalposttypeUtgaaende,
		fmt.Sprintf("%s_%s", e.SakID, e.BrevsendingID)).
		Dokument(fysiskDokument).
		Hotsak(e.SakID).
		OpprettetAv(e.OpprettetAv)
	resp, err := l.svc.OpprettOgFerdigstillJournalpost(ctx, b)
	if err != nil {
		return nil, err
	}

	return []rapid.Outcome{{Key: e.FnrBruker, Event: events.BrevsendingJournalfort{
		Header:         rapid.NewHeader(events.EventBrevsendingJournalfort),
		JournalpostID:  resp.JournalpostID,
		SakID:          e.SakID,
		FnrMottaker:    e.FnrMottaker,
		FnrBruker:      e.FnrBruker,
		Dokumenttittel: e.Dokumenttittel,
		Dokumenttype:   e.Dokumenttype,
		BrevsendingID:  e.BrevsendingID,
		OpprettetAv:    e.OpprettetAv,
	}}}, nil
}

func (l *Listeners) journalfortNotat(ctx context.Context, e *events.JournalfortNotatOpprettet) ([]rapid.Outcome, error) {
	l.log.InfoContext(ctx, "journalført notat opprettet", "sak_id", e.SakID, "notat_id", e.NotatID)

	b := builders.NewOpprettJournalpost(e.FnrBruker, "", models.DokumenttypeNotat, models.JournalposttypeNotat,
		fmt.Sprintf("hotsak-jfrnotat-%s_%s", e.SakID, e.NotatID)).
		Dokument(e.FysiskDokument,
			builders.MedTittel(e.Dokumenttittel),
			builders.MedStrukturertDokument(e.StrukturertDokument)).
		Tittel(e.Dokumenttittel).
		Hotsak(e.SakID).
		Tilleggsopplysninger(hotsakApplikasjon, map[string]string{"sakId": e.SakID, "saksnotatId": e.NotatID}).
		OpprettetAv(e.OpprettetAv)
	resp, err := l.svc.OpprettOgFerdigstillJournalpost(ctx, b)
	if err != nil {
		return nil, err
	}

	return []rapid.Outcome{{Key: e.FnrBruker, Event: events.JournalfortNotatJournalfort{
		Header:         rapid.NewHeader(events.EventJournalfortNotatJournalfort),
		JournalpostID:  resp.JournalpostID,
		SakID:          e.SakID,
		FnrBruker:      e.FnrBruker,
		Dokumenttittel: e.Dokumenttittel,
		Dokumenttype:   models.DokumenttypeNotat,
		NotatID:        e.NotatID,
		OpprettetAv:    e.OpprettetAv,
	}}}, nil
}

func (l *Listeners) notatFeilregistrert(ctx context.Context, e *events.JournalfortNotatFeilregistrert) ([]rapid.Outcome, error) {
	l.log.InfoContext(ctx, "journalført notat feilregistrert",
		"sak_id", e.SakID, "saksnotat_id", e.SaksnotatID, "journalpost_id", e.JournalpostID)
	return nil, l.svc.FeilregistrerSakstilknytning(ctx, e.JournalpostID)
}

func (l *Listeners) notatOverstyrInnsyn(ctx context.Context, e *events.JournalfortNotatOverstyrInnsyn) ([]rapid.Outcome, error) {
	return nil, l.svc.OverstyrInnsyn(ctx, e.JournalpostID)
}

func (l *Listeners) sakAnnulert(ctx context.Context, e *events.SakAnnulert) ([]rapid.Outcome, error) {
	l.log.InfoContext(ctx, "sak annulert, feilregistrerer sakstilknytning",
		"sak_id", e.SakID, "journalpost_id", e.JournalpostID)
	return nil, l.svc.FeilregistrerSakstilknytning(ctx, e.JournalpostID)
}

func (l *Listeners) bestillingAvvist(ctx context.Context, e *events.BestillingAvvist) ([]rapid.Outcome, error) {
	if e.JoarkRef == "" {
		l.log.InfoContext(ctx, "bestilling avvist uten journalpost, ignorerer",
			"event_id", e.EventID, "sak_id", e.Saksnummer)
		return nil, nil
	}
	_, err := l.svc.EndreTittel(ctx, e.JoarkRef, e.Tittel, e.Dokumenter)
	return nil, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
