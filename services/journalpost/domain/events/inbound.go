package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
)

// SoknadFordeltGammelFlyt is hm-søknadFordeltGammelFlyt: an application is
// routed to Gosys and is filed without a case link.
type SoknadFordeltGammelFlyt struct {
	FodselNrBruker    string `json:"fodselNrBruker" validate:"required"`
	SoknadID          string `json:"soknadId" validate:"required"`
	ErHast            *bool  `json:"erHast" validate:"required"`
	BehovsmeldingType string `json:"behovsmeldingType" validate:"required"`
	SoknadGjelder     string `json:"soknadGjelder"`
}

// Validate implements the listener's self check.
func (e *SoknadFordeltGammelFlyt) Validate() error {
	_, err := models.ParseSakstype(e.BehovsmeldingType)
	return err
}

// Sakstype returns the parsed behovsmeldingType.
func (e *SoknadFordeltGammelFlyt) Sakstype() models.Sakstype {
	return models.Sakstype(e.BehovsmeldingType)
}

// Dokumenttittel is soknadGjelder, or the application title when it is absent.
func (e *SoknadFordeltGammelFlyt) Dokumenttittel() string {
	if e.SoknadGjelder != "" {
		return e.SoknadGjelder
	}
	return models.DokumenttypeSoknadOmHjelpemidler.Tittel()
}

// SakOpprettet is hm-sakOpprettet: Hotsak created a case from an application.
type SakOpprettet struct {
	SoknadID          string          `json:"soknadId" validate:"required"`
	SakID             string          `json:"sakId" validate:"required"`
	FnrBruker         string          `json:"fnrBruker" validate:"required"`
	SoknadGjelder     string          `json:"soknadGjelder" validate:"required"`
	NavnBruker        string          `json:"navnBruker"`
	SoknadJSON        json.RawMessage `json:"soknadJson"`
	BehovsmeldingType string          `json:"behovsmeldingType"`
}

// Sakstype resolves the case type from behovsmeldingType, falling back to
// soknadJson.behovsmeldingType.
func (e *SakOpprettet) Sakstype() (models.Sakstype, error) {
	typ := e.BehovsmeldingType
	if typ == "" && len(e.SoknadJSON) > 0 {
		var soknad struct {
			BehovsmeldingType string `json:"behovsmeldingType"`
		}
		if err := json.Unmarshal(e.SoknadJSON, &soknad); err == nil {
			typ = soknad.BehovsmeldingType
		}
	}
	if typ == "" {
		return "", errors.New("behovsmeldingType is required")
	}
	return models.ParseSakstype(typ)
}

// Validate implements the listener's self check.
func (e *SakOpprettet) Validate() error {
	_, err := e.Sakstype()
	return err
}

// JournalpostJournalfort is hm-journalpost-journalført: a caseworker filed a
// scanned journal post manually in Hotsak.
type JournalpostJournalfort struct {
	JournalpostID       string `json:"journalpostId" validate:"required"`
	JournalforendeEnhet string `json:"journalførendeEnhet" validate:"required"`
	FnrBruker           string `json:"fnrBruker" validate:"required"`
	SakID               string `json:"sakId" validate:"required"`
	DokumentID          string `json:"dokumentId"`
	Dokumenttittel      string `json:"dokumenttittel"`
	OppgaveID           string `json:"oppgaveId"`
}

// SakTilbakefortGosys is hm-sakTilbakeførtGosys: a case was sent back to
// Gosys and its journal post must be moved off the Hotsak case.
type SakTilbakefortGosys struct {
	JoarkRef            string   `json:"joarkRef" validate:"required"`
	Saksnummer          string   `json:"saksnummer" validate:"required"`
	FnrBruker           string   `json:"fnrBruker" validate:"required"`
	SoknadID            string   `json:"soknadId" validate:"required"`
	Sakstype            string   `json:"sakstype" validate:"required"`
	DokumentBeskrivelse string   `json:"dokumentBeskrivelse" validate:"required"`
	Enhet               string   `json:"enhet" validate:"required"`
	NavIdent            string   `json:"navIdent"`
	ValgteArsaker       []string `json:"valgteÅrsaker"`
	Begrunnelse         string   `json:"begrunnelse"`
	Prioritet           string   `json:"prioritet"`
}

// Validate implements the listener's self check.
func (e *SakTilbakefortGosys) Validate() error {
	_, err := models.ParseSakstype(e.Sakstype)
	return err
}

// FeilregistrertSakstilknytning is
// hm-feilregistrerteSakstilknytningForJournalpost: the case link was
// registered as erroneous and a replacement journal post is needed.
type FeilregistrertSakstilknytning struct {
	SoknadID            string               `json:"soknadId" validate:"required"`
	SakID               string               `json:"sakId" validate:"required"`
	FnrBruker           string               `json:"fnrBruker" validate:"required"`
	Sakstype            string               `json:"sakstype" validate:"required"`
	NyJournalpostID     string               `json:"nyJournalpostId" validate:"required"`
	NavnBruker          string               `json:"navnBruker" validate:"required"`
	SoknadJSON          json.RawMessage      `json:"soknadJson" validate:"required_json"`
	MottattDato         models.LocalDateTime `json:"mottattDato" validate:"required"`
	DokumentBeskrivelse string               `json:"dokumentBeskrivelse"`
	Enhet               string               `json:"enhet"`
	NavIdent            string               `json:"navIdent"`
	ValgteArsaker       []string             `json:"valgteÅrsaker"`
	Begrunnelse         string               `json:"begrunnelse"`
}

// Validate implements the listener's self check.
func (e *FeilregistrertSakstilknytning) Validate() error {
	_, err := models.ParseSakstype(e.Sakstype)
	return err
}

// JournalposterKnyttetTilNySak is hm-journalposter-knyttet-til-ny-sak.
type JournalposterKnyttetTilNySak struct {
	FraSakID            string `json:"fraSakId" validate:"required"`
	TilSakID            string `json:"tilSakId" validate:"required"`
	FnrBruker           string `json:"fnrBruker" validate:"required"`
	JournalforendeEnhet string `json:"journalførendeEnhet" validate:"required"`
}

// Barnebrillevedtak is hm-barnebrillevedtak-opprettet and
// hm-barnebrillevedtak-rekjor: an optician claim was decided.
type Barnebrillevedtak struct {
	Fnr                  string               `json:"fnr" validate:"required"`
	BrukersNavn          string               `json:"brukersNavn" validate:"required"`
	Orgnr                string               `json:"orgnr" validate:"required"`
	OrgNavn              string               `json:"orgNavn" validate:"required"`
	OrgAdresse           string               `json:"orgAdresse" validate:"required"`
	NavnAvsender         string               `json:"navnAvsender" validate:"required"`
	EventID              string               `json:"eventId" validate:"required"`
	OpprettetDato        models.LocalDateTime `json:"opprettetDato" validate:"required"`
	SakID                string               `json:"sakId" validate:"required"`
	Brilleseddel         json.RawMessage      `json:"brilleseddel" validate:"required_json"`
	Bestillingsdato      models.LocalDateTime `json:"bestillingsdato" validate:"required"`
	Bestillingsreferanse string               `json:"bestillingsreferanse" validate:"required"`
	SatsBeskrivelse      string               `json:"satsBeskrivelse" validate:"required"`
	SatsBelop            json.Number          `json:"satsBeløp" validate:"required"`
	Belop                json.Number          `json:"beløp" validate:"required"`
}

// BarnebrillerFeilregistrer is hm-barnebriller-feilregistrer-journalpost.
type BarnebrillerFeilregistrer struct {
	EventID   string               `json:"eventId" validate:"required"`
	SakID     string               `json:"sakId" validate:"required"`
	JoarkRef  string               `json:"joarkRef" validate:"required"`
	Opprettet models.LocalDateTime `json:"opprettet" validate:"required"`
}

// Vedtaksstatus of a manual barnebriller decision.
const (
	VedtaksstatusInnvilget = "INNVILGET"
	VedtaksstatusAvslatt   = "AVSLÅTT"
)

// ManueltBarnebrillevedtak is hm-manuelt-barnebrillevedtak-opprettet: a
// caseworker decided a barnebriller case and the letter must be archived.
type ManueltBarnebrillevedtak struct {
	Saksnummer    string               `json:"saksnummer" validate:"required"`
	FnrBruker     string               `json:"fnrBruker" validate:"required"`
	Opprettet     models.LocalDateTime `json:"opprettet" validate:"required"`
	Pdf           []byte               `json:"pdf" validate:"required"`
	Vedtaksstatus string               `json:"vedtaksstatus" validate:"omitempty,oneof=INNVILGET AVSLÅTT"`
	OpprettetAv   string               `json:"opprettetAv"`
}

// Dokumenttype picks the letter type from the decision status.
func (e *ManueltBarnebrillevedtak) Dokumenttype() models.Dokumenttype {
	switch e.Vedtaksstatus {
	case VedtaksstatusInnvilget:
		return models.DokumenttypeVedtaksbrevBarnebrillerInnvilgelse
	case VedtaksstatusAvslatt:
		return models.DokumenttypeVedtaksbrevBarnebrillerAvslag
	default:
		return models.DokumenttypeVedtaksbrevBarnebriller
	}
}

// BrevsendingOpprettet is hm-brevsending-opprettet: Hotsak sent a letter.
type BrevsendingOpprettet struct {
	SakID          string              `json:"sakId" validate:"required"`
	FnrMottaker    string              `json:"fnrMottaker" validate:"required"`
	FnrBruker      string              `json:"fnrBruker" validate:"required"`
	FysiskDokument []byte              `json:"fysiskDokument" validate:"required"`
	Dokumenttittel string              `json:"dokumenttittel" validate:"required"`
	Dokumenttype   models.Dokumenttype `json:"dokumenttype" validate:"required"`
	Sprakkode      models.Sprakkode    `json:"språkkode" validate:"required,oneof=NB NN EN"`
	BrevsendingID  string              `json:"brevsendingId"`
	OpprettetAv    string              `json:"opprettetAv"`
}

// Validate implements the listener's self check.
func (e *BrevsendingOpprettet) Validate() error {
	if !e.Dokumenttype.Valid() {
		return fmt.Errorf("unknown dokumenttype %q", e.Dokumenttype)
	}
	return nil
}

// JournalfortNotatOpprettet is hm-journalført-notat-opprettet.
type JournalfortNotatOpprettet struct {
	SakID               string           `json:"sakId" validate:"required"`
	FnrBruker           string           `json:"fnrBruker" validate:"required"`
	FysiskDokument      []byte           `json:"fysiskDokument" validate:"required"`
	Dokumenttittel      string           `json:"dokumenttittel" validate:"required"`
	Sprakkode           models.Sprakkode `json:"språkkode" validate:"required,oneof=NB NN EN"`
	NotatID             string           `json:"notatId"`
	OpprettetAv         string           `json:"opprettetAv"`
	StrukturertDokument json.RawMessage  `json:"strukturertDokument"`
}

// JournalfortNotatFeilregistrert is hm-journalført-notat-feilregistrert.
type JournalfortNotatFeilregistrert struct {
	SakID         string `json:"sakId" validate:"required"`
	SaksnotatID   string `json:"saksnotatId" validate:"required"`
	JournalpostID string `json:"journalpostId" validate:"required"`
}

// JournalfortNotatOverstyrInnsyn is hm-journalført-notat-overstyr-innsyn.
type JournalfortNotatOverstyrInnsyn struct {
	JournalpostID string `json:"journalpostId" validate:"required"`
}

// SakAnnulert is hm-sak-annulert.
type SakAnnulert struct {
	SakID         string `json:"sakId" validate:"required"`
	JournalpostID string `json:"journalpostId" validate:"required"`
}

// BestillingAvvist is hm-BestillingAvvist-saf-beriket: an order was rejected
// and its journal post gets a new title. A missing joarkRef means there is
// nothing to update.
type BestillingAvvist struct {
	EventID    string                `json:"eventId" validate:"required"`
	Saksnummer string                `json:"saksnummer" validate:"required"`
	SoknadID   string                `json:"søknadId" validate:"required"`
	Opprettet  models.LocalDateTime  `json:"opprettet" validate:"required"`
	Tittel     string                `json:"tittel" validate:"required"`
	Dokumenter []models.DokumentInfo `json:"dokumenter" validate:"required,dive"`
	JoarkRef   string                `json:"joarkRef"`
}

// SoknadMottatt is an application posted by the application front end. It
// has no event name; events that carry @soknadId are our own forwards.
type SoknadMottatt struct {
	FodselNrBruker    string          `json:"fodselNrBruker" validate:"required"`
	FodselNrInnsender string          `json:"fodselNrInnsender" validate:"required"`
	Soknad            json.RawMessage `json:"soknad" validate:"required_json"`

	parsed soknadBody
}

type soknadBody struct {
	Soknad struct {
		ID     string `json:"id"`
		Bruker struct {
			Fornavn   string `json:"fornavn"`
			Etternavn string `json:"etternavn"`
		} `json:"bruker"`
	} `json:"soknad"`
}

// Validate implements the listener's self check. It requires soknad.soknad.id.
func (e *SoknadMottatt) Validate() error {
	if err := json.Unmarshal(e.Soknad, &e.parsed); err != nil {
		return fmt.Errorf("soknad: %w", err)
	}
	if e.parsed.Soknad.ID == "" {
		return errors.New("soknad.soknad.id is required")
	}
	return nil
}

// SoknadID returns soknad.soknad.id.
func (e *SoknadMottatt) SoknadID() string { return e.parsed.Soknad.ID }

// NavnBruker returns "etternavn fornavn".
func (e *SoknadMottatt) NavnBruker() string {
	return e.parsed.Soknad.Bruker.Etternavn + " " + e.parsed.Soknad.Bruker.Fornavn
}
