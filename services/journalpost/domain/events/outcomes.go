package events

import (
	"encoding/json"
	"time"

	rapid "github.com/ghuser/hmjoarksink/pkg/events"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
)

// SoknadArkivert is published when an application routed to Gosys was filed.
type SoknadArkivert struct {
	rapid.Header
	SoknadID       string          `json:"soknadId"`
	FodselNrBruker string          `json:"fodselNrBruker"`
	FnrBruker      string          `json:"fnrBruker"`
	ErHast         bool            `json:"erHast"`
	Sakstype       models.Sakstype `json:"sakstype"`
	SoknadGjelder  string          `json:"soknadGjelder"`
	JoarkRef       string          `json:"joarkRef"`
}

// OpprettetOgFerdigstiltJournalpost is published when an application from a
// Hotsak case was archived and finalized.
type OpprettetOgFerdigstiltJournalpost struct {
	rapid.Header
	SoknadID       string `json:"soknadId"`
	FodselNrBruker string `json:"fodselNrBruker"`
	FnrBruker      string `json:"fnrBruker"`
	JoarkRef       string `json:"joarkRef"`
	SakID          string `json:"sakId"`
	DokumentTittel string `json:"dokumentTittel"`
}

// JournalpostOppdatertOgFerdigstilt is published when a manually filed
// journal post was finalized on its Hotsak case.
type JournalpostOppdatertOgFerdigstilt struct {
	rapid.Header
	JournalpostID       string `json:"journalpostId"`
	JournalforendeEnhet string `json:"journalførendeEnhet"`
	NyJournalpostID     string `json:"nyJournalpostId"`
	FnrBruker           string `json:"fnrBruker"`
	SakID               string `json:"sakId"`
	OppgaveID           string `json:"oppgaveId,omitempty"`
}

// OpprettetMottattJournalpost is published when a replacement journal post
// was created for Gosys after the case link was error-registered.
type OpprettetMottattJournalpost struct {
	rapid.Header
	SoknadID            string          `json:"soknadId"`
	FodselNrBruker      string          `json:"fodselNrBruker"`
	FnrBruker           string          `json:"fnrBruker"`
	JoarkRef            string          `json:"joarkRef"`
	JournalpostID       string          `json:"journalpostId"`
	SakID               string          `json:"sakId"`
	Sakstype            models.Sakstype `json:"sakstype"`
	DokumentBeskrivelse string          `json:"dokumentBeskrivelse"`
	Enhet               string          `json:"enhet"`
	NavIdent            string          `json:"navIdent,omitempty"`
	ValgteArsaker       []string        `json:"valgteÅrsaker"`
	Begrunnelse         string          `json:"begrunnelse,omitempty"`
	SoknadJSON          json.RawMessage `json:"soknadJson,omitempty"`
	Prioritet           string          `json:"prioritet,omitempty"`
}

// JournalposterTilknyttetSak is published when every journal post of a
// case was moved to a new case. Journalposter maps old ids to new ids.
type JournalposterTilknyttetSak struct {
	rapid.Header
	FraSakID            string            `json:"fraSakId"`
	TilSakID            string            `json:"tilSakId"`
	FnrBruker           string            `json:"fnrBruker"`
	JournalforendeEnhet string            `json:"journalførendeEnhet"`
	Journalposter       map[string]string `json:"journalposter"`
}

// OpprettetOgFerdigstiltBarnebrillerJournalpost follows an optician claim.
// Opprettet is the claim's timestamp and shadows the header's.
type OpprettetOgFerdigstiltBarnebrillerJournalpost struct {
	rapid.Header
	Fnr            string    `json:"fnr"`
	Orgnr          string    `json:"orgnr"`
	SakID          string    `json:"sakId"`
	JoarkRef       string    `json:"joarkRef"`
	DokumentIder   []string  `json:"dokumentIder"`
	DokumentTittel string    `json:"dokumentTittel"`
	Opprettet      time.Time `json:"opprettet"`
}

// OpprettetOgFerdigstiltBarnebrillevedtak follows a manual decision letter.
type OpprettetOgFerdigstiltBarnebrillevedtak struct {
	rapid.Header
	Fnr            string `json:"fnr"`
	SakID          string `json:"sakId"`
	JoarkRef       string `json:"joarkRef"`
	DokumentTittel string `json:"dokumentTittel"`
}

// BrevsendingJournalfort follows a letter sent from Hotsak.
type BrevsendingJournalfort struct {
	rapid.Header
	JournalpostID  string              `json:"journalpostId"`
	SakID          string              `json:"sakId"`
	FnrMottaker    string              `json:"fnrMottaker"`
	FnrBruker      string              `json:"fnrBruker"`
	Dokumenttittel string              `json:"dokumenttittel"`
	Dokumenttype   models.Dokumenttype `json:"dokumenttype"`
	BrevsendingID  string              `json:"brevsendingId,omitempty"`
	OpprettetAv    string              `json:"opprettetAv,omitempty"`
}

// JournalfortNotatJournalfort follows a filed case note.
type JournalfortNotatJournalfort struct {
	rapid.Header
	JournalpostID  string              `json:"journalpostId"`
	SakID          string              `json:"sakId"`
	FnrBruker      string              `json:"fnrBruker"`
	Dokumenttittel string              `json:"dokumenttittel"`
	Dokumenttype   models.Dokumenttype `json:"dokumenttype"`
	NotatID        string              `json:"notatId,omitempty"`
	OpprettetAv    string              `json:"opprettetAv,omitempty"`
}

// BarnebrillerJournalpostFeilregistrert follows an error-registered
// barnebriller journal post.
type BarnebrillerJournalpostFeilregistrert struct {
	rapid.Header
	SakID    string `json:"sakId"`
	JoarkRef string `json:"joarkRef"`
}

// Soknad is the forwarded application. It uses the older "@" keys; the
// presence of @soknadId keeps the intake listener from consuming it again.
type Soknad struct {
	EventName  string          `json:"@event_name"`
	SoknadID   string          `json:"@soknadId"`
	Opprettet  time.Time       `json:"@opprettet"`
	FnrBruker  string          `json:"fnrBruker"`
	NavnBruker string          `json:"navnBruker"`
	Soknad     json.RawMessage `json:"soknad"`
}

// NewSoknad returns the forwarded form of e.
func NewSoknad(e *SoknadMottatt, now time.Time) Soknad {
	return Soknad{
		EventName:  EventSoknad,
		SoknadID:   e.SoknadID(),
		Opprettet:  now,
		FnrBruker:  e.FodselNrBruker,
		NavnBruker: e.NavnBruker(),
		Soknad:     e.Soknad,
	}
}
