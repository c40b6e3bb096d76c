// Package builders assembles archive and cover sheet requests.
package builders

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/ghuser/hmjoarksink/services/journalpost/domain"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
)

// OpprettJournalpost builds an OpprettJournalpostRequest. Setters return the
// builder so calls can be chained; Build validates the result.
type OpprettJournalpost struct {
	fnrBruker            string
	fnrAvsenderMottaker  string
	dokumenttype         models.Dokumenttype
	journalposttype      models.Journalposttype
	eksternReferanseID   string
	tittel               string
	datoMottatt          *time.Time
	enhet                string
	opprettetAv          string
	sak                  *models.Sak
	tilleggsopplysninger []models.Tilleggsopplysning
	dokumenter           []models.Dokument
}

// NewOpprettJournalpost starts a request. An empty fnrAvsenderMottaker leaves
// the sender out, which is what NOTAT journal posts require.
func NewOpprettJournalpost(
	fnrBruker, fnrAvsenderMottaker string,
	dokumenttype models.Dokumenttype,
	journalposttype models.Journalposttype,
	eksternReferanseID string,
) *OpprettJournalpost {
	return &OpprettJournalpost{
		fnrBruker:           fnrBruker,
		fnrAvsenderMottaker: fnrAvsenderMottaker,
		dokumenttype:        dokumenttype,
		journalposttype:     journalposttype,
		eksternReferanseID:  eksternReferanseID,
		tittel:              dokumenttype.Tittel(),
		enhet:               models.DefaultEnhet,
	}
}

// DokumentOption configures one document.
type DokumentOption func(*models.Dokument)

// MedTittel overrides the document title.
func MedTittel(tittel string) DokumentOption {
	return func(d *models.Dokument) {
		if tittel != "" {
			d.Tittel = tittel
		}
	}
}

// MedStrukturertDokument adds the JSON source as an ORIGINAL variant. Empty
// and null values are ignored.
func MedStrukturertDokument(data json.RawMessage) DokumentOption {
	return func(d *models.Dokument) {
		trimmed := strings.TrimSpace(string(data))
		if trimmed == "" || trimmed == "null" {
			return
		}
		d.Dokumentvarianter = append(d.Dokumentvarianter, models.DokumentVariant{
			Filtype:        models.FiltypeJSON,
			Variantformat:  models.VariantformatOriginal,
			FysiskDokument: []byte(trimmed),
		})
	}
}

// Dokument adds a PDF/A document.
func (b *OpprettJournalpost) Dokument(fysiskDokument []byte, opts ...DokumentOption) *OpprettJournalpost {
	d := models.Dokument{
		Brevkode: b.dokumenttype.Brevkode(),
		Tittel:   b.dokumenttype.Dokumenttittel(),
		Dokumentvarianter: []models.DokumentVariant{{
			Filtype:        models.FiltypePDFA,
			Variantformat:  models.VariantformatArkiv,
			FysiskDokument: fysiskDokument,
		}},
	}
	for _, opt := range opts {
		opt(&d)
	}
	b.dokumenter = append(b.dokumenter, d)
	return b
}

// Hotsak links the journal post to a Hotsak case.
func (b *OpprettJournalpost) Hotsak(sakID string) *OpprettJournalpost {
	b.sak = models.FagsakHotsak(sakID)
	return b
}

// OptikerFagsak links the journal post to a barnebriller case.
func (b *OpprettJournalpost) OptikerFagsak(sakID string) *OpprettJournalpost {
	b.sak = models.FagsakOptiker(sakID)
	return b
}

// GenerellSak links the journal post to no specific case.
func (b *OpprettJournalpost) GenerellSak() *OpprettJournalpost {
	b.sak = models.GenerellSak()
	return b
}

// Tilleggsopplysninger replaces the additional information. Keys are joined
// to prefix with "_"; empty values are dropped. Entries are sorted by key.
func (b *OpprettJournalpost) Tilleggsopplysninger(prefix string, values map[string]string) *OpprettJournalpost {
	keys := make([]string, 0, len(values))
	for k, v := range values {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	b.tilleggsopplysninger = make([]models.Tilleggsopplysning, 0, len(keys))
	for _, k := range keys {
		nokkel := k
		if prefix != "" {
			nokkel = prefix + "_" + k
		}
		b.tilleggsopplysninger = append(b.tilleggsopplysninger, models.Tilleggsopplysning{Nokkel: nokkel, Verdi: values[k]})
	}
	return b
}

// DatoMottatt sets the date received.
func (b *OpprettJournalpost) DatoMottatt(t time.Time) *OpprettJournalpost {
	b.datoMottatt = &t
	return b
}

// JournalforendeEnhet sets the responsible unit. An empty value leaves it
// for the archive to decide.
func (b *OpprettJournalpost) JournalforendeEnhet(enhet string) *OpprettJournalpost {
	b.enhet = enhet
	return b
}

// Tittel overrides the journal post title.
func (b *OpprettJournalpost) Tittel(tittel string) *OpprettJournalpost {
	if tittel != "" {
		b.tittel = tittel
	}
	return b
}

// OpprettetAv records the NAV ident sent as Nav-User-Id.
func (b *OpprettJournalpost) OpprettetAv(ident string) *OpprettJournalpost {
	b.opprettetAv = ident
	return b
}

// Ident returns the ident set with OpprettetAv.
func (b *OpprettJournalpost) Ident() string { return b.opprettetAv }

// EksternReferanseID returns the idempotency key.
func (b *OpprettJournalpost) EksternReferanseID() string { return b.eksternReferanseID }

// Dokumenttype returns the document type.
func (b *OpprettJournalpost) Dokumenttype() models.Dokumenttype { return b.dokumenttype }

// Build returns the request, or domain.ErrNoDocuments when no document was added.
func (b *OpprettJournalpost) Build() (*models.OpprettJournalpostRequest, error) {
	if len(b.dokumenter) == 0 {
		return nil, domain.ErrNoDocuments
	}
	req := &models.OpprettJournalpostRequest{
		Dokumenter:           append([]models.Dokument(nil), b.dokumenter...),
		EksternReferanseID:   b.eksternReferanseID,
		Journalposttype:      b.journalposttype,
		Bruker:               models.BrukerMedFnr(b.fnrBruker),
		DatoMottatt:          b.datoMottatt,
		JournalfoerendeEnhet: b.enhet,
		Kanal:                b.resolveKanal(),
		Sak:                  b.sak,
		Tema:                 models.TemaHJE,
		Tittel:               b.tittel,
	}
	if b.fnrAvsenderMottaker != "" {
		req.AvsenderMottaker = models.AvsenderMottakerMedFnr(b.fnrAvsenderMottaker)
	}
	if len(b.tilleggsopplysninger) > 0 {
		req.Tilleggsopplysninger = b.tilleggsopplysninger
	}
	return req, nil
}

func (b *OpprettJournalpost) resolveKanal() string {
	switch b.journalposttype {
	case models.JournalposttypeUtgaaende:
		return models.KanalSentralPrint
	case models.JournalposttypeNotat:
		return ""
	default:
		return models.KanalNavNo
	}
}
