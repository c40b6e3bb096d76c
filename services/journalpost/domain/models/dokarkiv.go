package models

import "time"

// Journalposttype is the direction of a journal post in the archive API.
type Journalposttype string

const (
	JournalposttypeInngaaende Journalposttype = "INNGAAENDE"
	JournalposttypeUtgaaende  Journalposttype = "UTGAAENDE"
	JournalposttypeNotat      Journalposttype = "NOTAT"
)

// Archive API constants.
const (
	TemaHJE = "HJE"

	KanalNavNo         = "NAV_NO"
	KanalSentralPrint  = "S"
	DefaultEnhet       = "9999"
	FagsaksystemHotsak = "HJELPEMIDLER"
	FagsaksystemOptik  = "BARNEBRILLER"

	SakstypeFagsak      = "FAGSAK"
	SakstypeGenerellSak = "GENERELL_SAK"

	IDTypeFNR      = "FNR"
	IDTypeORGNR    = "ORGNR"
	IDTypeHPRNR    = "HPRNR"
	IDTypeUTLORG   = "UTL_ORG"
	IDTypeAKTOERID = "AKTOERID"

	VariantformatArkiv    = "ARKIV"
	VariantformatOriginal = "ORIGINAL"
	FiltypePDFA           = "PDFA"
	FiltypeJSON           = "JSON"

	InnsynVisesMaskineltGodkjent = "VISES_MASKINELT_GODKJENT"
)

// OpprettJournalpostRequest is the body of POST journalpost.
type OpprettJournalpostRequest struct {
	Dokumenter           []Dokument           `json:"dokumenter"`
	EksternReferanseID   string               `json:"eksternReferanseId,omitempty"`
	Journalposttype      Journalposttype      `json:"journalposttype"`
	AvsenderMottaker     *AvsenderMottaker    `json:"avsenderMottaker,omitempty"`
	Behandlingstema      string               `json:"behandlingstema,omitempty"`
	Bruker               *Bruker              `json:"bruker,omitempty"`
	DatoDokument         *time.Time           `json:"datoDokument,omitempty"`
	DatoMottatt          *time.Time           `json:"datoMottatt,omitempty"`
	JournalfoerendeEnhet string               `json:"journalfoerendeEnhet,omitempty"`
	Kanal                string               `json:"kanal,omitempty"`
	Sak                  *Sak                 `json:"sak,omitempty"`
	Tema                 string               `json:"tema"`
	Tilleggsopplysninger []Tilleggsopplysning `json:"tilleggsopplysninger,omitempty"`
	Tittel               string               `json:"tittel"`
}

// Dokument is one document of a journal post.
type Dokument struct {
	Brevkode          string            `json:"brevkode,omitempty"`
	Tittel            string            `json:"tittel,omitempty"`
	Dokumentvarianter []DokumentVariant `json:"dokumentvarianter"`
}

// DokumentVariant is one rendering of a document. FysiskDokument is
// base64-encoded by encoding/json.
type DokumentVariant struct {
	Filtype        string `json:"filtype"`
	Variantformat  string `json:"variantformat"`
	FysiskDokument []byte `json:"fysiskDokument"`
}

// AvsenderMottaker is the sender of an inbound or the recipient of an outbound journal post.
type AvsenderMottaker struct {
	ID     string `json:"id,omitempty"`
	IDType string `json:"idType,omitempty"`
	Navn   string `json:"navn,omitempty"`
}

// Bruker is the person the journal post concerns.
type Bruker struct {
	ID     string `json:"id"`
	IDType string `json:"idType"`
}

// Sak links a journal post to a case.
type Sak struct {
	FagsakID     string `json:"fagsakId,omitempty"`
	Fagsaksystem string `json:"fagsaksystem,omitempty"`
	Sakstype     string `json:"sakstype"`
}

// Tilleggsopplysning is a free-form key/value attached to a journal post.
type Tilleggsopplysning struct {
	Nokkel string `json:"nokkel"`
	Verdi  string `json:"verdi"`
}

// OpprettJournalpostResponse is returned by POST journalpost, on 201 and on 409.
type OpprettJournalpostResponse struct {
	JournalpostID          string           `json:"journalpostId"`
	Journalpoststatus      string           `json:"journalpoststatus,omitempty"`
	Melding                string           `json:"melding,omitempty"`
	JournalpostFerdigstilt bool             `json:"journalpostferdigstilt"`
	Dokumenter             []DokumentInfoID `json:"dokumenter,omitempty"`
}

// DokumentIDer returns the ids of the created documents.
func (r *OpprettJournalpostResponse) DokumentIDer() []string {
	ids := make([]string, 0, len(r.Dokumenter))
	for _, d := range r.Dokumenter {
		if d.DokumentInfoID != "" {
			ids = append(ids, d.DokumentInfoID)
		}
	}
	return ids
}

// DokumentInfoID identifies a created document.
type DokumentInfoID struct {
	DokumentInfoID string `json:"dokumentInfoId"`
}

// OppdaterJournalpostRequest is the body of PUT journalpost/{id}. Only set
// fields are changed.
type OppdaterJournalpostRequest struct {
	AvsenderMottaker      *AvsenderMottaker `json:"avsenderMottaker,omitempty"`
	Bruker                *Bruker           `json:"bruker,omitempty"`
	Dokumenter            []DokumentInfo    `json:"dokumenter,omitempty"`
	Sak                   *Sak              `json:"sak,omitempty"`
	Tema                  string            `json:"tema,omitempty"`
	Tittel                string            `json:"tittel,omitempty"`
	OverstyrInnsynsregler string            `json:"overstyrInnsynsregler,omitempty"`
}

// DokumentInfo renames one document.
type DokumentInfo struct {
	DokumentInfoID string `json:"dokumentInfoId"`
	Tittel         string `json:"tittel,omitempty"`
}

// OppdaterJournalpostResponse is returned by PUT journalpost/{id}.
type OppdaterJournalpostResponse struct {
	JournalpostID string `json:"journalpostId"`
}

// FerdigstillJournalpostRequest is the body of PATCH journalpost/{id}/ferdigstill.
type FerdigstillJournalpostRequest struct {
	JournalfoerendeEnhet string `json:"journalfoerendeEnhet"`
}

// KnyttTilAnnenSakRequest is the body of PUT journalpost/{id}/knyttTilAnnenSak.
type KnyttTilAnnenSakRequest struct {
	Bruker               Bruker `json:"bruker"`
	FagsakID             string `json:"fagsakId"`
	Fagsaksystem         string `json:"fagsaksystem"`
	JournalfoerendeEnhet string `json:"journalfoerendeEnhet"`
	Sakstype             string `json:"sakstype"`
	Tema                 string `json:"tema"`
}

// KnyttTilAnnenSakResponse carries the id of the copied journal post.
type KnyttTilAnnenSakResponse struct {
	NyJournalpostID string `json:"nyJournalpostId"`
}

// BrukerMedFnr returns a Bruker identified by fnr.
func BrukerMedFnr(fnr string) *Bruker {
	return &Bruker{ID: fnr, IDType: IDTypeFNR}
}

// AvsenderMottakerMedFnr returns an AvsenderMottaker identified by fnr.
func AvsenderMottakerMedFnr(fnr string) *AvsenderMottaker {
	return &AvsenderMottaker{ID: fnr, IDType: IDTypeFNR}
}

// FagsakHotsak links to a case in Hotsak.
func FagsakHotsak(sakID string) *Sak {
	return &Sak{FagsakID: sakID, Fagsaksystem: FagsaksystemHotsak, Sakstype: SakstypeFagsak}
}

// FagsakOptiker links to a barnebriller case from the optician portal.
func FagsakOptiker(sakID string) *Sak {
	return &Sak{FagsakID: sakID, Fagsaksystem: FagsaksystemOptik, Sakstype: SakstypeFagsak}
}

// GenerellSak links to no specific case.
func GenerellSak() *Sak {
	return &Sak{Sakstype: SakstypeGenerellSak}
}
