package models

// Dokumenttype identifies the kind of document being archived. Each type has a
// brevkode, a journal post title and a document title.
type Dokumenttype string

const (
	DokumenttypeSoknadOmHjelpemidler                Dokumenttype = "SØKNAD_OM_HJELPEMIDLER"
	DokumenttypeBestillingAvTekniskeHjelpemidler    Dokumenttype = "BESTILLING_AV_TEKNISKE_HJELPEMIDLER"
	DokumenttypeBytteAvHjelpemidler                 Dokumenttype = "BYTTE_AV_HJELPEMIDLER"
	DokumenttypeBrukerpassbytteAvHjelpemidler       Dokumenttype = "BRUKERPASSBYTTE_AV_HJELPEMIDLER"
	DokumenttypeTilskuddBrillerTilBarn              Dokumenttype = "TILSKUDD_VED_KJØP_AV_BRILLER_TIL_BARN"
	DokumenttypeTilskuddBrillerTilBarnEttersendelse Dokumenttype = "TILSKUDD_VED_KJØP_AV_BRILLER_TIL_BARN_ETTERSENDELSE"
	DokumenttypeKravBarnebrillerOptiker             Dokumenttype = "KRAV_BARNEBRILLER_OPTIKER"
	DokumenttypeKravBarnebrillerOptikerAvvisning    Dokumenttype = "KRAV_BARNEBRILLER_OPTIKER_AVVISNING"
	DokumenttypeVedtaksbrevBarnebriller             Dokumenttype = "VEDTAKSBREV_BARNEBRILLER_HOTSAK"
	DokumenttypeVedtaksbrevBarnebrillerAvslag       Dokumenttype = "VEDTAKSBREV_BARNEBRILLER_HOTSAK_AVSLAG"
	DokumenttypeVedtaksbrevBarnebrillerInnvilgelse  Dokumenttype = "VEDTAKSBREV_BARNEBRILLER_HOTSAK_INNVILGELSE"
	DokumenttypeInnhenteOpplysningerBarnebriller    Dokumenttype = "INNHENTE_OPPLYSNINGER_BARNEBRILLER"
	DokumenttypeNotat                               Dokumenttype = "NOTAT"
	DokumenttypeBreveditorVedtaksbrev               Dokumenttype = "BREVEDITOR_VEDTAKSBREV"
)

type dokumenttypeInfo struct {
	brevkode       string
	tittel         string
	dokumenttittel string
}

var dokumenttyper = map[Dokumenttype]dokumenttypeInfo{
	DokumenttypeSoknadOmHjelpemidler: {
		brevkode: "NAV 10-07.03",
		tittel:   "Søknad om hjelpemidler",
	},
	DokumenttypeBestillingAvTekniskeHjelpemidler: {
		brevkode: "NAV 10-07.05",
		tittel:   "Bestilling av tekniske hjelpemidler",
	},
	DokumenttypeBytteAvHjelpemidler: {
		brevkode: "NAV 10-07.31",
		tittel:   "Bytte av hjelpemiddel",
	},
	DokumenttypeBrukerpassbytteAvHjelpemidler: {
		brevkode: "NAV 10-07.31",
		tittel:   "Brukerpassbytte av hjelpemiddel",
	},
	DokumenttypeTilskuddBrillerTilBarn: {
		brevkode: "NAV 10-07.34",
		tittel:   "Tilskudd ved kjøp av briller til barn",
	},
	DokumenttypeTilskuddBrillerTilBarnEttersendelse: {
		brevkode: "NAVe 10-07.34",
		tittel:   "Ettersendelse til tilskudd ved kjøp av briller til barn",
	},
	DokumenttypeKravBarnebrillerOptiker: {
		brevkode: "krav_barnebriller_optiker",
		tittel:   "Tilskudd ved kjøp av briller til barn via optiker",
	},
	DokumenttypeKravBarnebrillerOptikerAvvisning: {
		brevkode: "krav_barnebriller_optiker_avvisning",
		tittel:   "Stanset behandling av tilskudd til kjøp av briller til barn via optiker",
	},
	DokumenttypeVedtaksbrevBarnebriller: {
		brevkode:       "vedtaksbrev_barnebriller_hotsak",
		tittel:         "Vedtaksbrev barnebriller",
		dokumenttittel: "Tilskudd ved kjøp av briller til barn",
	},
	DokumenttypeVedtaksbrevBarnebrillerAvslag: {
		brevkode:       "vedtaksbrev_barnebriller_hotsak_avslag",
		tittel:         "Avslag: Vedtaksbrev barnebriller",
		dokumenttittel: "Avslag: Tilskudd ved kjøp av briller til barn",
	},
	DokumenttypeVedtaksbrevBarnebrillerInnvilgelse: {
		brevkode:       "vedtaksbrev_barnebriller_hotsak_innvilgelse",
		tittel:         "Innvilgelse: Vedtaksbrev barnebriller",
		dokumenttittel: "Innvilgelse: Tilskudd ved kjøp av briller til barn",
	},
	DokumenttypeInnhenteOpplysningerBarnebriller: {
		brevkode: "innhente_opplysninger_barnebriller",
		tittel:   "Briller til barn: Nav etterspør opplysninger",
	},
	DokumenttypeNotat: {
		brevkode: "HJE_NOT_001",
		tittel:   "Journalført notat i sak",
	},
	DokumenttypeBreveditorVedtaksbrev: {
		brevkode: "vedtaksbrev_hotsak_breveditor",
		tittel:   "Vedtak for søknad om hjelpemidler",
	},
}

// brevkodeForEttersendelse lists the document types that are sent with a
// cover sheet, and the brevkode printed on it.
var brevkodeForEttersendelse = map[Dokumenttype]string{
	DokumenttypeInnhenteOpplysningerBarnebriller: "NAV 10-07.34",
}

// Valid reports whether d is a known type.
func (d Dokumenttype) Valid() bool {
	_, ok := dokumenttyper[d]
	return ok
}

// Brevkode returns the form code stored on archived documents.
func (d Dokumenttype) Brevkode() string {
	return dokumenttyper[d].brevkode
}

// Tittel returns the journal post title.
func (d Dokumenttype) Tittel() string {
	return dokumenttyper[d].tittel
}

// Dokumenttittel returns the document title, which defaults to the journal post title.
func (d Dokumenttype) Dokumenttittel() string {
	info := dokumenttyper[d]
	if info.dokumenttittel != "" {
		return info.dokumenttittel
	}
	return info.tittel
}

// BrevkodeForEttersendelse returns the cover sheet brevkode for d, if d is
// sent with a cover sheet.
func (d Dokumenttype) BrevkodeForEttersendelse() (string, bool) {
	kode, ok := brevkodeForEttersendelse[d]
	return kode, ok
}
