package models

import "fmt"

// Sakstype is the kind of case an application belongs to.
type Sakstype string

const (
	SakstypeSoknad          Sakstype = "SØKNAD"
	SakstypeBestilling      Sakstype = "BESTILLING"
	SakstypeBytte           Sakstype = "BYTTE"
	SakstypeBrukerpassBytte Sakstype = "BRUKERPASS_BYTTE"
	SakstypeBarnebriller    Sakstype = "BARNEBRILLER"
)

var sakstypeDokumenttype = map[Sakstype]Dokumenttype{
	SakstypeSoknad:          DokumenttypeSoknadOmHjelpemidler,
	SakstypeBestilling:      DokumenttypeBestillingAvTekniskeHjelpemidler,
	SakstypeBytte:           DokumenttypeBytteAvHjelpemidler,
	SakstypeBrukerpassBytte: DokumenttypeBrukerpassbytteAvHjelpemidler,
	SakstypeBarnebriller:    DokumenttypeTilskuddBrillerTilBarn,
}

// ParseSakstype returns the Sakstype for s.
func ParseSakstype(s string) (Sakstype, error) {
	st := Sakstype(s)
	if _, ok := sakstypeDokumenttype[st]; !ok {
		return "", fmt.Errorf("unknown sakstype %q", s)
	}
	return st, nil
}

// Dokumenttype returns the document type archived for this kind of case.
func (s Sakstype) Dokumenttype() Dokumenttype {
	return sakstypeDokumenttype[s]
}

// Sprakkode is the written language of a letter.
type Sprakkode string

const (
	SprakkodeNB Sprakkode = "NB"
	SprakkodeNN Sprakkode = "NN"
	SprakkodeEN Sprakkode = "EN"
)

// Valid reports whether s is a supported language.
func (s Sprakkode) Valid() bool {
	switch s {
	case SprakkodeNB, SprakkodeNN, SprakkodeEN:
		return true
	}
	return false
}
