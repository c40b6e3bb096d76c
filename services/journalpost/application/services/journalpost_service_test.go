package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ghuser/hmjoarksink/pkg/config"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/builders"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/forsteside"
)

type fakeArchive struct {
	calls     []string
	opprettet []*models.OpprettJournalpostRequest
	forsoek   []bool
	oppdatert map[string]*models.OppdaterJournalpostRequest
	knyttet   map[string]*models.KnyttTilAnnenSakRequest
	nextID    string
	err       error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{
		nextID:    "999",
		oppdatert: map[string]*models.OppdaterJournalpostRequest{},
		knyttet:   map[string]*models.KnyttTilAnnenSakRequest{},
	}
}

func (a *fakeArchive) OpprettJournalpost(_ context.Context, req *models.OpprettJournalpostRequest, forsoek bool, _ string) (*models.OpprettJournalpostResponse, error) {
	a.calls = append(a.calls, "opprett")
	a.opprettet = append(a.opprettet, req)
	a.forsoek = append(a.forsoek, forsoek)
	if a.err != nil {
		return nil, a.err
	}
	return &models.OpprettJournalpostResponse{JournalpostID: a.nextID, JournalpostFerdigstilt: forsoek}, nil
}

func (a *fakeArchive) OppdaterJournalpost(_ context.Context, id string, req *models.OppdaterJournalpostRequest) (string, error) {
	a.calls = append(a.calls, "oppdater:"+id)
	a.oppdatert[id] = req
	return id, a.err
}

func (a *fakeArchive) FerdigstillJournalpost(_ context.Context, id, _ string) error {
	a.calls = append(a.calls, "ferdigstill:"+id)
	return a.err
}

func (a *fakeArchive) FeilregistrerSakstilknytning(_ context.Context, id string) error {
	a.calls = append(a.calls, "feilregistrer:"+id)
	return a.err
}

func (a *fakeArchive) KnyttTilAnnenSak(_ context.Context, id string, req *models.KnyttTilAnnenSakRequest) (string, error) {
	a.calls = append(a.calls, "knytt:"+id)
	a.knyttet[id] = req
	return "ny-" + id, a.err
}

func (a *fakeArchive) OverstyrInnsyn(_ context.Context, id string) error {
	a.calls = append(a.calls, "innsyn:"+id)
	return a.err
}

type fakeLookup struct {
	mu            sync.Mutex
	journalposter map[string]*models.Journalpost
	forSak        []models.Journalpost
	hentet        []string
	dokumentErr   error
}

func (l *fakeLookup) HentJournalpost(_ context.Context, id string) (*models.Journalpost, error) {
	return l.journalposter[id], nil
}

func (l *fakeLookup) HentJournalposterForSak(context.Context, string) ([]models.Journalpost, error) {
	return l.forSak, nil
}

func (l *fakeLookup) HentDokument(_ context.Context, jp, dok, variant string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hentet = append(l.hentet, dok+"/"+variant)
	if l.dokumentErr != nil {
		return nil, l.dokumentErr
	}
	return []byte(jp + ":" + dok + ":" + variant), nil
}

type fakeRenderer struct {
	parts [][]byte
	brev  []string
}

func (r *fakeRenderer) GenererBrev(_ context.Context, mappe, brevID, malform string, _ any) ([]byte, error) {
	r.brev = append(r.brev, mappe+"/"+brevID+"/"+malform)
	return []byte("brev"), nil
}

func (r *fakeRenderer) GenererBarnebrillePdf(context.Context, any) ([]byte, error) {
	return []byte("barnebrille"), nil
}

func (r *fakeRenderer) KombinerPdf(_ context.Context, parts ...[]byte) ([]byte, error) {
	r.parts = parts
	return bytes.Join(parts, []byte("|")), nil
}

type fakeCoverSheets struct {
	req *builders.ForstesideRequest
}

func (c *fakeCoverSheets) LagForsteside(_ context.Context, req *builders.ForstesideRequest) (*forsteside.Forsteside, error) {
	c.req = req
	return &forsteside.Forsteside{FysiskDokument: []byte("forsteside")}, nil
}

type fakeBehovsmeldinger struct {
	ids []string
}

func (b *fakeBehovsmeldinger) HentBehovsmeldingPdf(_ context.Context, id string) ([]byte, error) {
	b.ids = append(b.ids, id)
	return []byte{1, 2, 3}, nil
}

type fixture struct {
	svc      *JournalpostService
	archive  *fakeArchive
	lookup   *fakeLookup
	renderer *fakeRenderer
	sheets   *fakeCoverSheets
	soknader *fakeBehovsmeldinger
}

func newFixture() *fixture {
	f := &fixture{
		archive:  newFakeArchive(),
		lookup:   &fakeLookup{journalposter: map[string]*models.Journalpost{}},
		renderer: &fakeRenderer{},
		sheets:   &fakeCoverSheets{},
		soknader: &fakeBehovsmeldinger{},
	}
	log := logger.New(&config.Config{LogLevel: "error"})
	f.svc = NewJournalpostService(f.archive, f.lookup, f.renderer, f.sheets, f.soknader, nil, log)
	return f
}

func equalCalls(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// TestFerdigstillJournalpost_StatusBranching verifies MOTTATT is updated and
// finalized in place, finalized journal posts are linked to the new case and
// anything else is rejected.
func TestFerdigstillJournalpost_StatusBranching(t *testing.T) {
	tests := []struct {
		status    models.Journalstatus
		wantID    string
		wantCalls []string
		wantErr   error
	}{
		{models.JournalstatusMottatt, "1", []string{"oppdater:1", "ferdigstill:1"}, nil},
		{models.JournalstatusFerdigstilt, "ny-1", []string{"knytt:1", "oppdater:ny-1"}, nil},
		{models.JournalstatusJournalfoert, "ny-1", []string{"knytt:1", "oppdater:ny-1"}, nil},
		{models.JournalstatusEkspedert, "ny-1", []string{"knytt:1", "oppdater:ny-1"}, nil},
		{models.JournalstatusUnderArbeid, "", nil, domain.ErrUnsupportedStatus},
		{models.JournalstatusFeilregistrert, "", nil, domain.ErrUnsupportedStatus},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			f := newFixture()
			f.lookup.journalposter["1"] = &models.Journalpost{JournalpostID: "1", Journalstatus: tt.status}

			id, err := f.svc.FerdigstillJournalpost(context.Background(), FerdigstillJournalpost{
				JournalpostID:       "1",
				JournalforendeEnhet: "4710",
				FnrBruker:           "12345678910",
				SakID:               "42",
				Dokumenttittel:      "Søknad om rullator",
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
			if !equalCalls(f.archive.calls, tt.wantCalls) {
				t.Errorf("calls = %v, want %v", f.archive.calls, tt.wantCalls)
			}
		})
	}
}

func TestFerdigstillJournalpost_MottattRequest(t *testing.T) {
	f := newFixture()
	f.lookup.journalposter["1"] = &models.Journalpost{JournalpostID: "1", Journalstatus: models.JournalstatusMottatt}

	_, err := f.svc.FerdigstillJournalpost(context.Background(), FerdigstillJournalpost{
		JournalpostID: "1", JournalforendeEnhet: "4710", FnrBruker: "12345678910", SakID: "42",
		DokumentID: "d1", Dokumenttittel: "Ny tittel",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := f.archive.oppdatert["1"]
	if req.Sak == nil || req.Sak.FagsakID != "42" || req.Sak.Fagsaksystem != models.FagsaksystemHotsak {
		t.Errorf("unexpected sak: %+v", req.Sak)
	}
	if req.Bruker == nil || req.Bruker.ID != "12345678910" {
		t.Errorf("unexpected bruker: %+v", req.Bruker)
	}
	if req.Tittel != "Ny tittel" || len(req.Dokumenter) != 1 || req.Dokumenter[0].DokumentInfoID != "d1" {
		t.Errorf("unexpected titles: %q %+v", req.Tittel, req.Dokumenter)
	}
}

func TestFerdigstillJournalpost_NoTitleSkipsUpdateAfterLink(t *testing.T) {
	f := newFixture()
	f.lookup.journalposter["1"] = &models.Journalpost{JournalpostID: "1", Journalstatus: models.JournalstatusFerdigstilt}

	id, err := f.svc.FerdigstillJournalpost(context.Background(), FerdigstillJournalpost{
		JournalpostID: "1", JournalforendeEnhet: "4710", FnrBruker: "1", SakID: "42",
	})
	if err != nil || id != "ny-1" {
		t.Fatalf("got %q, %v", id, err)
	}
	if !equalCalls(f.archive.calls, []string{"knytt:1"}) {
		t.Errorf("calls = %v", f.archive.calls)
	}
	if req := f.archive.knyttet["1"]; req.FagsakID != "42" || req.JournalfoerendeEnhet != "4710" || req.Tema != models.TemaHJE {
		t.Errorf("unexpected knytt request: %+v", req)
	}
}

func TestFerdigstillJournalpost_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.FerdigstillJournalpost(context.Background(), FerdigstillJournalpost{JournalpostID: "404"})
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if len(f.archive.calls) != 0 {
		t.Errorf("expected no archive calls, got %v", f.archive.calls)
	}
}

func TestOpprettOgFerdigstillJournalpost(t *testing.T) {
	f := newFixture()
	b := builders.NewOpprettJournalpost("1", "1", models.DokumenttypeSoknadOmHjelpemidler, models.JournalposttypeInngaaende, "S1HOTSAK").
		Dokument([]byte{1, 2, 3}).
		Hotsak("42")

	resp, err := f.svc.OpprettOgFerdigstillJournalpost(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.JournalpostID != "999" {
		t.Errorf("journalpostId = %q", resp.JournalpostID)
	}
	if len(f.archive.forsoek) != 1 || !f.archive.forsoek[0] {
		t.Errorf("expected forsoekFerdigstill=true, got %v", f.archive.forsoek)
	}
}

func TestOpprettOgFerdigstillJournalpost_NoDocuments(t *testing.T) {
	f := newFixture()
	b := builders.NewOpprettJournalpost("1", "1", models.DokumenttypeNotat, models.JournalposttypeNotat, "ref")

	_, err := f.svc.OpprettOgFerdigstillJournalpost(context.Background(), b)
	if !errors.Is(err, domain.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
	if len(f.archive.calls) != 0 {
		t.Errorf("expected no archive calls")
	}
}

func TestArkiverBehovsmelding(t *testing.T) {
	f := newFixture()
	mottatt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := f.svc.ArkiverBehovsmelding(context.Background(), ArkiverBehovsmelding{
		FnrBruker:          "12345678910",
		SoknadID:           "S1",
		Sakstype:           models.SakstypeBestilling,
		Dokumenttittel:     "Bestilling av rullator",
		EksternReferanseID: "S1_7_HOTSAK_TIL_GOSYS",
		DatoMottatt:        &mottatt,
	})
	if err != nil || id != "999" {
		t.Fatalf("got %q, %v", id, err)
	}
	req := f.archive.opprettet[0]
	if f.archive.forsoek[0] {
		t.Error("expected forsoekFerdigstill=false")
	}
	if req.Sak != nil || req.JournalfoerendeEnhet != "" {
		t.Errorf("expected no case link and no enhet, got %+v %q", req.Sak, req.JournalfoerendeEnhet)
	}
	if req.Dokumenter[0].Tittel != "Bestilling av rullator" {
		t.Errorf("dokument tittel = %q", req.Dokumenter[0].Tittel)
	}
	if req.Dokumenter[0].Brevkode != models.DokumenttypeBestillingAvTekniskeHjelpemidler.Brevkode() {
		t.Errorf("brevkode = %q", req.Dokumenter[0].Brevkode)
	}
	if req.DatoMottatt == nil || !req.DatoMottatt.Equal(mottatt) {
		t.Errorf("datoMottatt = %v", req.DatoMottatt)
	}
	if !bytes.Equal(req.Dokumenter[0].Dokumentvarianter[0].FysiskDokument, []byte{1, 2, 3}) {
		t.Error("expected the behovsmelding pdf as document")
	}
}

// TestFeilregistrerOgErstatt verifies the replacement strategy per sakstype
// and that the case link is always marked erroneous first.
func TestFeilregistrerOgErstatt(t *testing.T) {
	tests := []struct {
		sakstype models.Sakstype
		wantErr  error
		wantCall string
	}{
		{models.SakstypeSoknad, nil, "opprett"},
		{models.SakstypeBestilling, nil, "opprett"},
		{models.SakstypeBarnebriller, nil, "opprett"},
		{models.SakstypeBytte, domain.ErrUnsupportedSakstype, ""},
		{models.SakstypeBrukerpassBytte, domain.ErrUnsupportedSakstype, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.sakstype), func(t *testing.T) {
			f := newFixture()
			f.lookup.journalposter["7"] = &models.Journalpost{
				JournalpostID:   "7",
				Journalposttype: "I",
				Dokumenter: []models.JournalpostDokument{{
					DokumentInfoID:    "d1",
					Dokumentvarianter: []models.JournalpostDokumentvariant{{Variantformat: "ARKIV"}},
				}},
			}

			_, err := f.svc.FeilregistrerOgErstatt(context.Background(), Erstatt{
				JournalpostID: "7", SoknadID: "S1", FnrBruker: "1", Sakstype: tt.sakstype, Dokumenttittel: "t",
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if f.archive.calls[0] != "feilregistrer:7" {
				t.Errorf("expected feilregistrer first, got %v", f.archive.calls)
			}
			if tt.wantCall != "" {
				if len(f.archive.calls) != 2 || f.archive.calls[1] != tt.wantCall {
					t.Fatalf("calls = %v", f.archive.calls)
				}
				if got := f.archive.opprettet[0].EksternReferanseID; got != "S1_7_HOTSAK_TIL_GOSYS" {
					t.Errorf("eksternReferanseId = %q", got)
				}
			}
		})
	}
}

// TestKopierJournalpost verifies the copy keeps metadata, maps types and
// keeps document order although downloads run concurrently.
func TestKopierJournalpost(t *testing.T) {
	f := newFixture()
	opprettet := models.LocalDateTime{Time: time.Date(2023, 5, 2, 10, 0, 0, 0, time.UTC)}
	var dokumenter []models.JournalpostDokument
	for i := range 6 {
		dokumenter = append(dokumenter, models.JournalpostDokument{
			DokumentInfoID: fmt.Sprintf("d%d", i),
			Tittel:         fmt.Sprintf("Dokument %d", i),
			Brevkode:       "NAV 10-07.34",
			Dokumentvarianter: []models.JournalpostDokumentvariant{
				{Variantformat: "ARKIV"},
				{Variantformat: "ORIGINAL", Filtype: "JSON"},
			},
		})
	}
	f.lookup.journalposter["7"] = &models.Journalpost{
		JournalpostID:        "7",
		Tittel:               "Krav om barnebriller",
		Journalposttype:      "I",
		Tema:                 "HJE",
		Kanal:                "NAV_NO",
		Behandlingstema:      "ab0317",
		DatoOpprettet:        &opprettet,
		JournalfoerendeEnhet: "4710",
		AvsenderMottaker:     &models.JournalpostAvsenderMottaker{ID: "999999999", Type: "ORGNR", Navn: "Brillebutikken"},
		Bruker:               &models.JournalpostBruker{ID: "12345678910", Type: "FNR"},
		Dokumenter:           dokumenter,
	}

	id, err := f.svc.KopierJournalpost(context.Background(), "7", "ref")
	if err != nil || id != "999" {
		t.Fatalf("got %q, %v", id, err)
	}
	if len(f.lookup.hentet) != 12 {
		t.Errorf("expected 12 downloads, got %d", len(f.lookup.hentet))
	}

	req := f.archive.opprettet[0]
	if f.archive.forsoek[0] {
		t.Error("expected forsoekFerdigstill=false")
	}
	if req.Journalposttype != models.JournalposttypeInngaaende {
		t.Errorf("journalposttype = %q", req.Journalposttype)
	}
	if req.AvsenderMottaker.IDType != models.IDTypeORGNR || req.AvsenderMottaker.Navn != "Brillebutikken" {
		t.Errorf("avsenderMottaker = %+v", req.AvsenderMottaker)
	}
	if req.Bruker.IDType != models.IDTypeFNR || req.Bruker.ID != "12345678910" {
		t.Errorf("bruker = %+v", req.Bruker)
	}
	if req.DatoDokument == nil || !req.DatoDokument.Equal(opprettet.Time) {
		t.Errorf("datoDokument = %v", req.DatoDokument)
	}
	if req.EksternReferanseID != "ref" || req.Tittel != "Krav om barnebriller" || req.Behandlingstema != "ab0317" {
		t.Errorf("unexpected metadata: %+v", req)
	}
	for i, d := range req.Dokumenter {
		if d.Tittel != fmt.Sprintf("Dokument %d", i) {
			t.Errorf("dokument %d out of order: %q", i, d.Tittel)
		}
		arkiv := d.Dokumentvarianter[0]
		if arkiv.Filtype != models.FiltypePDFA || string(arkiv.FysiskDokument) != fmt.Sprintf("7:d%d:ARKIV", i) {
			t.Errorf("dokument %d arkiv variant = %q/%q", i, arkiv.Filtype, arkiv.FysiskDokument)
		}
		if original := d.Dokumentvarianter[1]; original.Filtype != "JSON" || string(original.FysiskDokument) != fmt.Sprintf("7:d%d:ORIGINAL", i) {
			t.Errorf("dokument %d original variant = %q/%q", i, original.Filtype, original.FysiskDokument)
		}
	}
}

func TestKopierJournalpost_Failures(t *testing.T) {
	errDownload := errors.New("saf down")
	tests := []struct {
		name    string
		jp      *models.Journalpost
		dokErr  error
		wantErr error
	}{
		{"not found", nil, nil, domain.ErrRecordNotFound},
		{"no documents", &models.Journalpost{Journalposttype: "I"}, nil, domain.ErrNoDocuments},
		{"download fails", &models.Journalpost{
			Journalposttype: "U",
			Dokumenter: []models.JournalpostDokument{{
				DokumentInfoID:    "d1",
				Dokumentvarianter: []models.JournalpostDokumentvariant{{Variantformat: "ARKIV"}},
			}},
		}, errDownload, errDownload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.jp != nil {
				f.lookup.journalposter["7"] = tt.jp
			}
			f.lookup.dokumentErr = tt.dokErr
			_, err := f.svc.KopierJournalpost(context.Background(), "7", "ref")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if len(f.archive.opprettet) != 0 {
				t.Error("expected nothing to be created")
			}
		})
	}
}

func TestKnyttJournalposterTilNySak(t *testing.T) {
	f := newFixture()
	f.lookup.forSak = []models.Journalpost{{JournalpostID: "1"}, {JournalpostID: "2"}}
	f.lookup.journalposter["1"] = &models.Journalpost{JournalpostID: "1", Journalstatus: models.JournalstatusMottatt}
	f.lookup.journalposter["2"] = &models.Journalpost{JournalpostID: "2", Journalstatus: models.JournalstatusFerdigstilt}

	nye, err := f.svc.KnyttJournalposterTilNySak(context.Background(), KnyttTilNySak{
		FraSakID: "41", TilSakID: "42", FnrBruker: "1", JournalforendeEnhet: "4710",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nye["1"] != "1" || nye["2"] != "ny-2" {
		t.Errorf("unexpected mapping: %v", nye)
	}
	want := []string{"feilregistrer:1", "oppdater:1", "ferdigstill:1", "feilregistrer:2", "knytt:2"}
	if !equalCalls(f.archive.calls, want) {
		t.Errorf("calls = %v, want %v", f.archive.calls, want)
	}
}

func TestGenererForsteside(t *testing.T) {
	f := newFixture()
	pdf, err := f.svc.GenererForsteside(context.Background(), Forsteside{
		Tittel: "Innhente opplysninger", FnrBruker: "1", Sprakkode: models.SprakkodeNN,
		Brevkode: "NAV 10-07.34", FysiskDokument: []byte("brev"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(pdf) != "forsteside|brev" {
		t.Errorf("expected cover sheet in front, got %q", pdf)
	}
	if f.sheets.req.Spraakkode != models.SprakkodeNN || f.sheets.req.NavSkjemaID != "NAV 10-07.34" {
		t.Errorf("unexpected cover sheet request: %+v", f.sheets.req)
	}
}

func TestEndreTittelAndOverstyrInnsyn(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.EndreTittel(context.Background(), "5", "Avvist: Bestilling", []models.DokumentInfo{{DokumentInfoID: "d1", Tittel: "Avvist"}}); err != nil {
		t.Fatalf("endre tittel: %v", err)
	}
	if req := f.archive.oppdatert["5"]; req.Tittel != "Avvist: Bestilling" || len(req.Dokumenter) != 1 {
		t.Errorf("unexpected request: %+v", req)
	}
	if err := f.svc.OverstyrInnsyn(context.Background(), "5"); err != nil {
		t.Fatalf("overstyr innsyn: %v", err)
	}
	if !equalCalls(f.archive.calls, []string{"oppdater:5", "innsyn:5"}) {
		t.Errorf("calls = %v", f.archive.calls)
	}
}

// TestJournalforAvvisningsbrev verifies the letter is rendered and filed as a
// finalized outbound journal post on the general case.
func TestJournalforAvvisningsbrev(t *testing.T) {
	f := newFixture()
	mottatt := time.Date(2024, 5, 2, 13, 45, 0, 0, time.UTC)

	resp, err := f.svc.JournalforAvvisningsbrev(context.Background(), Avvisningsbrev{
		FnrBarn:            "12345678910",
		EksternReferanseID: "e1BARNEBRILLEAVVISNING",
		DatoMottatt:        mottatt,
		Data:               map[string]any{"begrunnelser": []string{"stansetOver18"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.JournalpostID != "999" {
		t.Errorf("journalpostId = %q", resp.JournalpostID)
	}
	if len(f.renderer.brev) != 1 || f.renderer.brev[0] != "barnebriller/barnebrillerAvvisningDirekteoppgjor/bokmaal" {
		t.Errorf("brev = %v", f.renderer.brev)
	}
	if len(f.archive.forsoek) != 1 || !f.archive.forsoek[0] {
		t.Fatalf("expected one finalizing create, got %v", f.archive.forsoek)
	}
	req := f.archive.opprettet[0]
	if req.Journalposttype != models.JournalposttypeUtgaaende || req.Sak == nil || req.Sak.Sakstype != "GENERELL_SAK" {
		t.Errorf("unexpected request: %q %+v", req.Journalposttype, req.Sak)
	}
	if req.Dokumenter[0].Brevkode != "krav_barnebriller_optiker_avvisning" || req.EksternReferanseID != "e1BARNEBRILLEAVVISNING" {
		t.Errorf("unexpected document: %q %q", req.Dokumenter[0].Brevkode, req.EksternReferanseID)
	}
	if req.DatoMottatt == nil || !req.DatoMottatt.Equal(mottatt) {
		t.Errorf("datoMottatt = %v", req.DatoMottatt)
	}
}
