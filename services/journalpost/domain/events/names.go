// Package events defines the rapid events consumed and produced by the
// journalpost service.
package events

// Inbound event names.
const (
	EventSoknadFordeltGammelFlyt        = "hm-søknadFordeltGammelFlyt"
	EventSakOpprettet                   = "hm-sakOpprettet"
	EventJournalpostJournalfort         = "hm-journalpost-journalført"
	EventSakTilbakefortGosys            = "hm-sakTilbakeførtGosys"
	EventFeilregistrertSakstilknytning  = "hm-feilregistrerteSakstilknytningForJournalpost"
	EventJournalposterKnyttetTilNySak   = "hm-journalposter-knyttet-til-ny-sak"
	EventBarnebrillevedtakOpprettet     = "hm-barnebrillevedtak-opprettet"
	EventBarnebrillevedtakRekjor        = "hm-barnebrillevedtak-rekjor"
	EventBarnebrillerFeilregistrer      = "hm-barnebriller-feilregistrer-journalpost"
	EventManueltBarnebrillevedtak       = "hm-manuelt-barnebrillevedtak-opprettet"
	EventBrilleAvvisning                = "hm-brille-avvisning"
	EventBrevsendingOpprettet           = "hm-brevsending-opprettet"
	EventJournalfortNotatOpprettet      = "hm-journalført-notat-opprettet"
	EventJournalfortNotatFeilregistrert = "hm-journalført-notat-feilregistrert"
	EventJournalfortNotatOverstyrInnsyn = "hm-journalført-notat-overstyr-innsyn"
	EventSakAnnulert                    = "hm-sak-annulert"
	EventBestillingAvvist               = "hm-BestillingAvvist-saf-beriket"
)

// Outbound event names.
const (
	EventSoknadArkivert                                = "hm-SøknadArkivert"
	EventOpprettetOgFerdigstiltJournalpost             = "hm-opprettetOgFerdigstiltJournalpost"
	EventJournalpostOppdatertOgFerdigstilt             = "hm-journalpost-oppdatert-og-ferdigstilt"
	EventOpprettetMottattJournalpost                   = "hm-opprettetMottattJournalpost"
	EventJournalposterTilknyttetSak                    = "hm-journalposter-tilknyttet-sak"
	EventOpprettetOgFerdigstiltBarnebrillerJournalpost = "hm-opprettetOgFerdigstiltBarnebrillerJournalpost"
	EventOpprettetOgFerdigstiltBarnebrillevedtak       = "hm-opprettetOgFerdigstiltBarnebrillevedtakJournalpost"
	EventBrevsendingJournalfort                        = "hm-brevsending-journalført"
	EventJournalfortNotatJournalfort                   = "hm-journalført-notat-journalført"
	EventBarnebrillerJournalpostFeilregistrert         = "hm-barnebriller-journalpost-feilregistrert"
	EventSoknad                                        = "Søknad"
)
