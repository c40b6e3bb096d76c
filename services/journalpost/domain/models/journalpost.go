package models

import "fmt"

// Journalstatus is the archive status of a journal post.
type Journalstatus string

const (
	JournalstatusMottatt        Journalstatus = "MOTTATT"
	JournalstatusJournalfoert   Journalstatus = "JOURNALFOERT"
	JournalstatusFerdigstilt    Journalstatus = "FERDIGSTILT"
	JournalstatusEkspedert      Journalstatus = "EKSPEDERT"
	JournalstatusUnderArbeid    Journalstatus = "UNDER_ARBEID"
	JournalstatusFeilregistrert Journalstatus = "FEILREGISTRERT"
	JournalstatusUtgaar         Journalstatus = "UTGAAR"
	JournalstatusAvbrutt        Journalstatus = "AVBRUTT"
	JournalstatusUkjentBruker   Journalstatus = "UKJENT_BRUKER"
	JournalstatusReservert      Journalstatus = "RESERVERT"
	JournalstatusUkjent         Journalstatus = "UKJENT"
)

// Journalpost is a journal post as returned by the archive lookup.
type Journalpost struct {
	JournalpostID        string                       `json:"journalpostId"`
	Tittel               string                       `json:"tittel"`
	Journalposttype      string                       `json:"journalposttype"`
	Journalstatus        Journalstatus                `json:"journalstatus"`
	Tema                 string                       `json:"tema"`
	Kanal                string                       `json:"kanal"`
	Behandlingstema      string                       `json:"behandlingstema"`
	EksternReferanseID   string                       `json:"eksternReferanseId"`
	DatoOpprettet        *LocalDateTime               `json:"datoOpprettet"`
	JournalfoerendeEnhet string                       `json:"journalfoerendeEnhet"`
	AvsenderMottaker     *JournalpostAvsenderMottaker `json:"avsenderMottaker"`
	Bruker               *JournalpostBruker           `json:"bruker"`
	Sak                  *JournalpostSak              `json:"sak"`
	Dokumenter           []JournalpostDokument        `json:"dokumenter"`
}

// JournalpostAvsenderMottaker is the sender or recipient of a stored journal post.
type JournalpostAvsenderMottaker struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Navn string `json:"navn"`
}

// JournalpostBruker is the person a stored journal post concerns.
type JournalpostBruker struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// JournalpostSak is the case link of a stored journal post.
type JournalpostSak struct {
	FagsakID     string `json:"fagsakId"`
	Fagsaksystem string `json:"fagsaksystem"`
	Sakstype     string `json:"sakstype"`
}

// JournalpostDokument is a document of a stored journal post.
type JournalpostDokument struct {
	DokumentInfoID    string                       `json:"dokumentInfoId"`
	Tittel            string                       `json:"tittel"`
	Brevkode          string                       `json:"brevkode"`
	Dokumentvarianter []JournalpostDokumentvariant `json:"dokumentvarianter"`
}

// JournalpostDokumentvariant is a stored rendering of a document.
type JournalpostDokumentvariant struct {
	Variantformat string `json:"variantformat"`
	Filtype       string `json:"filtype"`
}

// OpprettJournalposttype maps the lookup's I/U/N to the create request's type.
func OpprettJournalposttype(t string) (Journalposttype, error) {
	switch t {
	case "I":
		return JournalposttypeInngaaende, nil
	case "U":
		return JournalposttypeUtgaaende, nil
	case "N":
		return JournalposttypeNotat, nil
	}
	return "", fmt.Errorf("unknown journalposttype %q", t)
}

// AvsenderMottakerIDType validates a stored sender id type for reuse in a create request.
func AvsenderMottakerIDType(t string) (string, error) {
	switch t {
	case IDTypeFNR, IDTypeORGNR, IDTypeHPRNR, IDTypeUTLORG:
		return t, nil
	}
	return "", fmt.Errorf("unknown avsenderMottaker id type %q", t)
}

// BrukerIDType validates a stored user id type for reuse in a create request.
func BrukerIDType(t string) (string, error) {
	switch t {
	case IDTypeFNR, IDTypeORGNR, IDTypeAKTOERID:
		return t, nil
	}
	return "", fmt.Errorf("unknown bruker id type %q", t)
}
