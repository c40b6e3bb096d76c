package events

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
)

// BarnebrillePdf is the template data for the barnebrille claim PDF.
type BarnebrillePdf struct {
	Fnr                  string               `json:"fnr"`
	Orgnr                string               `json:"orgnr"`
	SakID                string               `json:"sakId"`
	BrukersNavn          string               `json:"brukersNavn"`
	OrgNavn              string               `json:"orgNavn"`
	OrgAdresse           string               `json:"orgAdresse"`
	NavnAvsender         string               `json:"navnAvsender"`
	Brilleseddel         json.RawMessage      `json:"brilleseddel"`
	Bestillingsdato      string               `json:"bestillingsdato"`
	Bestillingsar        int                  `json:"bestillingsår"`
	Bestillingsreferanse string               `json:"bestillingsreferanse"`
	SatsBeskrivelse      string               `json:"satsBeskrivelse"`
	SatsBelop            json.Number          `json:"satsBeløp"`
	Belop                json.Number          `json:"beløp"`
	Dokumenttype         models.Dokumenttype  `json:"dokumenttype"`
	DokumentTittel       string               `json:"dokumentTittel"`
	Opprettet            models.LocalDateTime `json:"opprettet"`
}

// Dokumenttype is the document type of an optician claim.
func (e *Barnebrillevedtak) Dokumenttype() models.Dokumenttype {
	return models.DokumenttypeKravBarnebrillerOptiker
}

// PdfData returns the template data for e.
func (e *Barnebrillevedtak) PdfData() BarnebrillePdf {
	dokumenttype := e.Dokumenttype()
	return BarnebrillePdf{
		Fnr:                  e.Fnr,
		Orgnr:                e.Orgnr,
		SakID:                e.SakID,
		BrukersNavn:          e.BrukersNavn,
		OrgNavn:              e.OrgNavn,
		OrgAdresse:           e.OrgAdresse,
		NavnAvsender:         e.NavnAvsender,
		Brilleseddel:         e.Brilleseddel,
		Bestillingsdato:      e.Bestillingsdato.Format("2006-01-02"),
		Bestillingsar:        e.Bestillingsdato.Year(),
		Bestillingsreferanse: e.Bestillingsreferanse,
		SatsBeskrivelse:      e.SatsBeskrivelse,
		SatsBelop:            e.SatsBelop,
		Belop:                e.Belop,
		Dokumenttype:         dokumenttype,
		DokumentTittel:       dokumenttype.Tittel(),
		Opprettet:            e.OpprettetDato,
	}
}

// BrilleAvvisning is hm-brille-avvisning: the optician solution stopped a
// claim and the optician gets a letter explaining why.
type BrilleAvvisning struct {
	EventID                string               `json:"eventId" validate:"required"`
	Opprettet              models.LocalDateTime `json:"opprettet" validate:"required"`
	FnrBarn                string               `json:"fnrBarn" validate:"required"`
	NavnBarn               string               `json:"navnBarn" validate:"required"`
	Orgnr                  string               `json:"orgnr" validate:"required"`
	OrgNavn                string               `json:"orgNavn" validate:"required"`
	Brilleseddel           *Brilleseddel        `json:"brilleseddel" validate:"required"`
	Bestillingsdato        models.LocalDateTime `json:"bestillingsdato" validate:"required"`
	EksisterendeVedtakDato models.LocalDateTime `json:"eksisterendeVedtakDato"`
	Arsaker                []string             `json:"årsaker" validate:"required"`
}

// Brilleseddel is the prescription sent with a claim.
type Brilleseddel struct {
	HoyreSfaere     float64 `json:"høyreSfære"`
	HoyreSylinder   float64 `json:"høyreSylinder"`
	HoyreAdd        float64 `json:"høyreAdd"`
	VenstreSfaere   float64 `json:"venstreSfære"`
	VenstreSylinder float64 `json:"venstreSylinder"`
	VenstreAdd      float64 `json:"venstreAdd"`
}

// avvisningBegrunnelser maps rejection reasons from the optician solution to
// the letter's paragraph ids.
var avvisningBegrunnelser = map[string]string{
	"HarIkkeVedtakIKalenderåret": "stansetEksisterendeVedtak",
	"Under18ÅrPåBestillingsdato": "stansetOver18",
	"MedlemAvFolketrygden":       "stansetIkkeMedlem",
	"Brillestyrke":               "stansetForLavBrillestyrke",
	"Bestillingsdato":            "stansetBestillingsdatoEldreEnn6Mnd",
}

// Validate implements the listener's self check. Every reason must be known.
func (e *BrilleAvvisning) Validate() error {
	for _, a := range e.Arsaker {
		if _, ok := avvisningBegrunnelser[a]; !ok {
			return fmt.Errorf("unknown årsak %q", a)
		}
	}
	return nil
}

// EksternReferanseID is the idempotency key of the letter's journal post.
func (e *BrilleAvvisning) EksternReferanseID() string {
	return e.EventID + "BARNEBRILLEAVVISNING"
}

// Avvisningsbrev is the template data for the rejection letter.
type Avvisningsbrev struct {
	Flettefelter AvvisningFlettefelter `json:"flettefelter"`
	Begrunnelser []string              `json:"begrunnelser"`
	Betingelser  Brevbetingelser       `json:"betingelser"`
}

// AvvisningFlettefelter are the merge fields of the rejection letter.
type AvvisningFlettefelter struct {
	BrevOpprettetDato     string `json:"brevOpprettetDato"`
	BarnetsFulleNavn      string `json:"barnetsFulleNavn"`
	BarnetsFodselsnummer  string `json:"barnetsFodselsnummer"`
	MottattDato           string `json:"mottattDato"`
	BestillingsDato       string `json:"bestillingsDato"`
	OptikerForretning     string `json:"optikerForretning"`
	SfaeriskStyrkeHoyre   string `json:"sfæriskStyrkeHøyre"`
	SfaeriskStyrkeVenstre string `json:"sfæriskStyrkeVenstre"`
	CylinderstyrkeHoyre   string `json:"cylinderstyrkeHøyre"`
	CylinderstyrkeVenstre string `json:"cylinderstyrkeVenstre"`
	ForrigeBrilleDato     string `json:"forrigeBrilleDato"`
}

// Brevbetingelser toggles optional letter sections.
type Brevbetingelser struct {
	ViseNavAdresse    bool `json:"viseNavAdresse"`
	ViseNavAdresseHoT bool `json:"viseNavAdresseHoT"`
}

// Brevdata returns the letter data for e. Call Validate first.
func (e *BrilleAvvisning) Brevdata() Avvisningsbrev {
	begrunnelser := make([]string, 0, len(e.Arsaker))
	for _, a := range e.Arsaker {
		begrunnelser = append(begrunnelser, avvisningBegrunnelser[a])
	}
	var forrige string
	if !e.EksisterendeVedtakDato.IsZero() {
		forrige = langDato(e.EksisterendeVedtakDato.Time)
	}
	mottatt := langDato(e.Opprettet.Time)
	return Avvisningsbrev{
		Flettefelter: AvvisningFlettefelter{
			BrevOpprettetDato:     mottatt,
			BarnetsFulleNavn:      e.NavnBarn,
			BarnetsFodselsnummer:  e.FnrBarn,
			MottattDato:           mottatt,
			BestillingsDato:       langDato(e.Bestillingsdato.Time),
			OptikerForretning:     e.OrgNavn + " (" + e.Orgnr + ")",
			SfaeriskStyrkeHoyre:   styrke(e.Brilleseddel.HoyreSfaere),
			SfaeriskStyrkeVenstre: styrke(e.Brilleseddel.VenstreSfaere),
			CylinderstyrkeHoyre:   styrke(e.Brilleseddel.HoyreSylinder),
			CylinderstyrkeVenstre: styrke(e.Brilleseddel.VenstreSylinder),
			ForrigeBrilleDato:     forrige,
		},
		Begrunnelser: begrunnelser,
		Betingelser:  Brevbetingelser{ViseNavAdresse: true},
	}
}

var maneder = [...]string{
	"januar", "februar", "mars", "april", "mai", "juni",
	"juli", "august", "september", "oktober", "november", "desember",
}

// langDato formats t as "02. mai 2024".
func langDato(t time.Time) string {
	return fmt.Sprintf("%02d. %s %d", t.Day(), maneder[t.Month()-1], t.Year())
}

// styrke formats a lens strength with at least one decimal, "2.0" and "-0.25".
func styrke(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
