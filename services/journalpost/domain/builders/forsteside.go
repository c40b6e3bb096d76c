package builders

import "github.com/ghuser/hmjoarksink/services/journalpost/domain/models"

// DefaultArkivtittel is used until the producer sends its own archive title.
const DefaultArkivtittel = "Briller til barn: Ettersendelse"

// ForstesideAdresse is the return address printed on a cover sheet.
type ForstesideAdresse struct {
	Adresselinje1 string `json:"adresselinje1"`
	Adresselinje2 string `json:"adresselinje2,omitempty"`
	Adresselinje3 string `json:"adresselinje3,omitempty"`
	Postnummer    string `json:"postnummer"`
	Poststed      string `json:"poststed"`
}

// ForstesideBruker is the person a cover sheet is for.
type ForstesideBruker struct {
	BrukerID   string `json:"brukerId"`
	BrukerType string `json:"brukerType"`
}

// ForstesideRequest is the body of POST foersteside.
type ForstesideRequest struct {
	Spraakkode               models.Sprakkode  `json:"spraakkode"`
	Overskriftstittel        string            `json:"overskriftstittel"`
	Foerstesidetype          string            `json:"foerstesidetype"`
	Adresse                  ForstesideAdresse `json:"adresse"`
	Bruker                   ForstesideBruker  `json:"bruker"`
	Tema                     string            `json:"tema"`
	Arkivtittel              string            `json:"arkivtittel,omitempty"`
	Vedleggsliste            []string          `json:"vedleggsliste"`
	NavSkjemaID              string            `json:"navSkjemaId,omitempty"`
	DokumentlisteFoersteside []string          `json:"dokumentlisteFoersteside"`
	Enhetsnummer             string            `json:"enhetsnummer,omitempty"`
}

var defaultForstesideAdresse = ForstesideAdresse{
	Adresselinje1: "Nav Skanning",
	Adresselinje2: "Postboks 1400",
	Postnummer:    "0109",
	Poststed:      "OSLO",
}

var vedlegg = map[models.Sprakkode][]string{
	models.SprakkodeNB: {"Se vedlagte brev"},
	models.SprakkodeNN: {"Sjå vedlagte brev"},
	models.SprakkodeEN: {"See the attached letters"},
}

// Forsteside builds a cover sheet request for documents sent back by post.
type Forsteside struct {
	tittel       string
	fnrBruker    string
	sprakkode    models.Sprakkode
	adresse      ForstesideAdresse
	brevkode     string
	arkivtittel  string
	enhetsnummer string
}

// NewForsteside starts a cover sheet request in bokmål.
func NewForsteside(tittel, fnrBruker string) *Forsteside {
	return &Forsteside{
		tittel:      tittel,
		fnrBruker:   fnrBruker,
		sprakkode:   models.SprakkodeNB,
		adresse:     defaultForstesideAdresse,
		arkivtittel: DefaultArkivtittel,
	}
}

// Sprakkode sets the language. Unknown languages fall back to bokmål.
func (f *Forsteside) Sprakkode(s models.Sprakkode) *Forsteside {
	if s.Valid() {
		f.sprakkode = s
	}
	return f
}

// Brevkode sets the form code printed on the sheet.
func (f *Forsteside) Brevkode(kode string) *Forsteside {
	f.brevkode = kode
	return f
}

// Arkivtittel overrides the title the scanned post is archived under.
func (f *Forsteside) Arkivtittel(tittel string) *Forsteside {
	f.arkivtittel = tittel
	return f
}

// Enhetsnummer routes the scanned post to a unit.
func (f *Forsteside) Enhetsnummer(enhet string) *Forsteside {
	f.enhetsnummer = enhet
	return f
}

// Build returns the request.
func (f *Forsteside) Build() *ForstesideRequest {
	liste := vedlegg[f.sprakkode]
	return &ForstesideRequest{
		Spraakkode:               f.sprakkode,
		Overskriftstittel:        f.tittel,
		Foerstesidetype:          "ETTERSENDELSE",
		Adresse:                  f.adresse,
		Bruker:                   ForstesideBruker{BrukerID: f.fnrBruker, BrukerType: "PERSON"},
		Tema:                     models.TemaHJE,
		Arkivtittel:              f.arkivtittel,
		Vedleggsliste:            liste,
		NavSkjemaID:              f.brevkode,
		DokumentlisteFoersteside: liste,
		Enhetsnummer:             f.enhetsnummer,
	}
}
