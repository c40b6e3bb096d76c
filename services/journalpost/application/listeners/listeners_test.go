package listeners

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/hmjoarksink/pkg/config"
	rapid "github.com/ghuser/hmjoarksink/pkg/events"
	"github.com/ghuser/hmjoarksink/pkg/httpclient"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/services/journalpost/application/services"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/events"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/dokarkiv"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/forsteside"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/pdf"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/saf"
	"github.com/ghuser/hmjoarksink/services/journalpost/infrastructure/soknadapi"
)

const fnr = "12345678910"

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*message.Message
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msgs...)
	return nil
}

type fakeSoknader struct {
	lagret  []*models.Soknad
	forward []rapid.Outcome
	dup     bool
}

func (f *fakeSoknader) Lagre(_ context.Context, s *models.Soknad, forward rapid.Outcome) (bool, error) {
	if f.dup {
		return false, nil
	}
	f.lagret = append(f.lagret, s)
	f.forward = append(f.forward, forward)
	return true, nil
}

// downstream fakes every HTTP service the workflows call and records the
// requests by "METHOD path".
type downstream struct {
	t       *testing.T
	mu      sync.Mutex
	calls   []string
	opprett []models.OpprettJournalpostRequest
	brev    []events.Avvisningsbrev
	status  models.Journalstatus
}

func (d *downstream) count(prefix string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (d *downstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	d.mu.Lock()
	d.calls = append(d.calls, key)
	d.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/soknad-api/hm/hm-joark-sink/pdf/"):
		_, _ = w.Write([]byte{1, 2, 3})
	case r.Method == http.MethodPost && r.URL.Path == "/dokarkiv/journalpost":
		var req models.OpprettJournalpostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			d.t.Errorf("decode opprett request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		d.mu.Lock()
		d.opprett = append(d.opprett, req)
		d.mu.Unlock()
		ferdigstilt := r.URL.Query().Get("forsoekFerdigstill") == "true"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.OpprettJournalpostResponse{
			JournalpostID:          "999",
			JournalpostFerdigstilt: ferdigstilt,
			Dokumenter:             []models.DokumentInfoID{{DokumentInfoID: "d1"}},
		})
	case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/feilregistrerSakstilknytning"):
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPost && r.URL.Path == "/saf/graphql":
		_, _ = io.WriteString(w, `{"data":{"journalpost":{"journalpostId":"7","journalstatus":"`+string(d.status)+`"}}}`)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/dokarkiv/journalpost/"):
		_, _ = io.WriteString(w, `{"journalpostId":"7"}`)
	case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/ferdigstill"):
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPost && r.URL.Path == "/foerstesidegenerator/foersteside":
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"loepenummer":"1","foersteside":"`+base64.StdEncoding.EncodeToString([]byte("FS"))+`"}`)
	case r.Method == http.MethodPost && r.URL.Path == "/pdfgen/kombiner-til-pdf":
		_, _ = w.Write([]byte("FS+BREV"))
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/pdfgen/brev/"):
		var brev events.Avvisningsbrev
		if err := json.NewDecoder(r.Body).Decode(&brev); err != nil {
			d.t.Errorf("decode brev: %v", err)
		}
		d.mu.Lock()
		d.brev = append(d.brev, brev)
		d.mu.Unlock()
		_, _ = w.Write([]byte("AVVISNING"))
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/soknad-pdfgen/api/v1/genpdf/"):
		_, _ = w.Write([]byte("PDF"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type harness struct {
	router *rapid.Router
	pub    *recordingPublisher
	down   *downstream
	repo   *fakeSoknader
	byName map[string]rapid.Listener
}

func newHarness(t *testing.T, opts ...rapid.RouterOption) *harness {
	t.Helper()
	down := &downstream{t: t, status: models.JournalstatusMottatt}
	srv := httptest.NewServer(down)
	t.Cleanup(srv.Close)

	log := logger.New(&config.Config{LogLevel: "error"})
	client := func(name, path string) *httpclient.Client {
		c, err := httpclient.New(httpclient.Config{
			Name:            name,
			BaseURL:         srv.URL + path,
			InitialInterval: time.Millisecond,
			Logger:          log,
		})
		if err != nil {
			t.Fatalf("httpclient %s: %v", name, err)
		}
		return c
	}

	svc := services.NewJournalpostService(
		dokarkiv.New(client("dokarkiv", "/dokarkiv"), log),
		saf.New(client("saf", "/saf/graphql"), client("saf-rest", "/saf/rest"), log),
		pdf.New(client("soknad-pdfgen", "/soknad-pdfgen"), client("pdfgen", "/pdfgen"), log),
		forsteside.New(client("forsteside", "/foerstesidegenerator"), log),
		soknadapi.New(client("soknad-api", "/soknad-api"), log),
		nil,
		log,
	)
	repo := &fakeSoknader{}
	ls := New(svc, repo, nil, log)

	pub := &recordingPublisher{}
	opts = append([]rapid.RouterOption{rapid.WithPolicies(Policies(time.Millisecond))}, opts...)
	router := rapid.NewRouter("rapid", pub, log, opts...)
	router.Register(ls.All()...)

	byName := map[string]rapid.Listener{}
	for _, l := range router.Listeners() {
		byName[l.Name()] = l
	}
	return &harness{router: router, pub: pub, down: down, repo: repo, byName: byName}
}

// deliver hands payload to every registered listener, as the bus would.
func (h *harness) deliver(t *testing.T, payload map[string]any) []error {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var errs []error
	for _, l := range h.router.Listeners() {
		if err := h.router.Handler(l)(context.Background(), message.NewMessage("uuid", b)); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (h *harness) published(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, msg := range h.pub.msgs {
		var m map[string]any
		if err := json.Unmarshal(msg.Payload, &m); err != nil {
			t.Fatalf("unmarshal published: %v", err)
		}
		out = append(out, m)
	}
	return out
}

func sakOpprettet() map[string]any {
	return map[string]any{
		"eventName":     events.EventSakOpprettet,
		"soknadId":      "S1",
		"sakId":         "42",
		"fnrBruker":     fnr,
		"navnBruker":    "Nordmann Ola",
		"soknadGjelder": "Søknad om rullator",
		"soknadJson":    map[string]any{"behovsmeldingType": "SØKNAD"},
	}
}

// TestSakOpprettet_EndToEnd verifies a case-created event fetches the PDF,
// files and finalizes it and publishes exactly one outcome with the new id.
func TestSakOpprettet_EndToEnd(t *testing.T) {
	h := newHarness(t)

	if errs := h.deliver(t, sakOpprettet()); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	out := h.published(t)
	if len(out) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(out))
	}
	got := out[0]
	if got["eventName"] != events.EventOpprettetOgFerdigstiltJournalpost {
		t.Errorf("eventName = %v", got["eventName"])
	}
	if got["joarkRef"] != "999" || got["soknadId"] != "S1" || got["sakId"] != "42" {
		t.Errorf("unexpected outcome: %v", got)
	}
	if h.pub.msgs[0].Metadata.Get(rapid.MetadataKey) != fnr {
		t.Errorf("expected fnr as key, got %q", h.pub.msgs[0].Metadata.Get(rapid.MetadataKey))
	}

	if len(h.down.opprett) != 1 {
		t.Fatalf("expected 1 opprett call, got %d", len(h.down.opprett))
	}
	req := h.down.opprett[0]
	if string(req.Dokumenter[0].Dokumentvarianter[0].FysiskDokument) != string([]byte{1, 2, 3}) {
		t.Errorf("expected the fetched pdf as document")
	}
	if req.EksternReferanseID != "S1HOTSAK" || req.Sak == nil || req.Sak.FagsakID != "42" {
		t.Errorf("unexpected request: ref=%q sak=%+v", req.EksternReferanseID, req.Sak)
	}
	if req.Dokumenter[0].Tittel != "Søknad om rullator" {
		t.Errorf("dokument tittel = %q", req.Dokumenter[0].Tittel)
	}
}

// TestInvalidEvents_Discarded verifies events missing required fields are
// acked without any downstream call or outcome.
func TestInvalidEvents_Discarded(t *testing.T) {
	missing := func(key string) map[string]any {
		e := sakOpprettet()
		delete(e, key)
		return e
	}
	unknownType := sakOpprettet()
	unknownType["soknadJson"] = map[string]any{"behovsmeldingType": "UKJENT"}

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"no soknadId", missing("soknadId")},
		{"no fnrBruker", missing("fnrBruker")},
		{"no soknadGjelder", missing("soknadGjelder")},
		{"unknown behovsmeldingType", unknownType},
		{"brevsending bad language", map[string]any{
			"eventName": events.EventBrevsendingOpprettet, "sakId": "42", "fnrMottaker": fnr, "fnrBruker": fnr,
			"fysiskDokument": "AQID", "dokumenttittel": "Brev", "dokumenttype": "NOTAT", "språkkode": "SE",
		}},
		{"journalført without enhet", map[string]any{
			"eventName": events.EventJournalpostJournalfort, "journalpostId": "7", "fnrBruker": fnr, "sakId": "42",
		}},
		{"tilbakeført unknown sakstype", map[string]any{
			"eventName": events.EventSakTilbakefortGosys, "joarkRef": "7", "saksnummer": "42", "fnrBruker": fnr,
			"soknadId": "S1", "sakstype": "UKJENT", "dokumentBeskrivelse": "d", "enhet": "4710",
		}},
		{"fordelt without erHast", map[string]any{
			"eventName": events.EventSoknadFordeltGammelFlyt, "fodselNrBruker": fnr, "soknadId": "S1",
			"behovsmeldingType": "SØKNAD",
		}},
		{"feilregistrert without mottattDato", func() map[string]any {
			e := feilregistrert()
			delete(e, "mottattDato")
			return e
		}()},
		{"feilregistrert without navnBruker", func() map[string]any {
			e := feilregistrert()
			delete(e, "navnBruker")
			return e
		}()},
		{"feilregistrert null soknadJson", func() map[string]any {
			e := feilregistrert()
			e["soknadJson"] = nil
			return e
		}()},
		{"avvisning unknown årsak", func() map[string]any {
			e := brilleAvvisning()
			e["årsaker"] = []string{"Ukjent"}
			return e
		}()},
		{"avvisning without brilleseddel", func() map[string]any {
			e := brilleAvvisning()
			delete(e, "brilleseddel")
			return e
		}()},
		{"barnebrillevedtak null brilleseddel", map[string]any{
			"eventName": events.EventBarnebrillevedtakOpprettet, "fnr": fnr, "brukersNavn": "n", "orgnr": "1",
			"orgNavn": "o", "orgAdresse": "a", "navnAvsender": "n", "eventId": "e1",
			"opprettetDato": "2024-01-15T10:00:00", "sakId": "42", "brilleseddel": nil,
			"bestillingsdato": "2024-01-10", "bestillingsreferanse": "r", "satsBeskrivelse": "s",
			"satsBeløp": 750, "beløp": 750,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if errs := h.deliver(t, tt.payload); len(errs) != 0 {
				t.Fatalf("expected ack, got %v", errs)
			}
			if len(h.down.calls) != 0 {
				t.Errorf("expected no downstream calls, got %v", h.down.calls)
			}
			if len(h.pub.msgs) != 0 {
				t.Errorf("expected no outcomes, got %d", len(h.pub.msgs))
			}
		})
	}
}

func TestJournalpostJournalfort_SkipList(t *testing.T) {
	skip, err := rapid.ParseSkipList(events.EventJournalpostJournalfort + "=453827301")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	h := newHarness(t, rapid.WithSkipList(skip))

	errs := h.deliver(t, map[string]any{
		"eventName": events.EventJournalpostJournalfort, "journalpostId": "453827301",
		"journalførendeEnhet": "4710", "fnrBruker": fnr, "sakId": "42",
	})
	if len(errs) != 0 || len(h.down.calls) != 0 || len(h.pub.msgs) != 0 {
		t.Fatalf("expected skip, got errs=%v calls=%v published=%d", errs, h.down.calls, len(h.pub.msgs))
	}
}

func TestJournalpostJournalfort_Mottatt(t *testing.T) {
	h := newHarness(t)
	errs := h.deliver(t, map[string]any{
		"eventName": events.EventJournalpostJournalfort, "journalpostId": "7",
		"journalførendeEnhet": "4710", "fnrBruker": fnr, "sakId": "42", "oppgaveId": "o1",
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if h.down.count("PUT /dokarkiv/journalpost/7") != 1 || h.down.count("PATCH /dokarkiv/journalpost/7/ferdigstill") != 1 {
		t.Errorf("expected update and finalize, got %v", h.down.calls)
	}
	out := h.published(t)
	if len(out) != 1 || out[0]["nyJournalpostId"] != "7" || out[0]["oppgaveId"] != "o1" {
		t.Fatalf("unexpected outcomes: %v", out)
	}
}

// TestSakTilbakefort_UnsupportedSakstype verifies an unsupported sakstype is
// not retried within the delivery.
func TestSakTilbakefort_UnsupportedSakstype(t *testing.T) {
	h := newHarness(t)
	errs := h.deliver(t, map[string]any{
		"eventName": events.EventSakTilbakefortGosys, "joarkRef": "7", "saksnummer": "42", "fnrBruker": fnr,
		"soknadId": "S1", "sakstype": "BYTTE", "dokumentBeskrivelse": "Bytte", "enhet": "4710",
	})
	if len(errs) != 1 {
		t.Fatalf("expected the failure to propagate, got %v", errs)
	}
	if n := h.down.count("PATCH"); n != 1 {
		t.Errorf("expected one feilregistrer call, got %d", n)
	}
	if len(h.pub.msgs) != 0 {
		t.Errorf("expected no outcomes")
	}
}

func TestSakTilbakefort_Soknad(t *testing.T) {
	h := newHarness(t)
	errs := h.deliver(t, map[string]any{
		"eventName": events.EventSakTilbakefortGosys, "joarkRef": "7", "saksnummer": "42", "fnrBruker": fnr,
		"soknadId": "S1", "sakstype": "SØKNAD", "dokumentBeskrivelse": "Søknad om rullator", "enhet": "4710",
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if h.down.count("PATCH /dokarkiv/journalpost/7/feilregistrer/feilregistrerSakstilknytning") != 1 {
		t.Errorf("expected feilregistrer, got %v", h.down.calls)
	}
	if len(h.down.opprett) != 1 || h.down.opprett[0].EksternReferanseID != "S1_7_HOTSAK_TIL_GOSYS" {
		t.Fatalf("unexpected opprett calls: %+v", h.down.opprett)
	}
	out := h.published(t)
	if len(out) != 1 || out[0]["eventName"] != events.EventOpprettetMottattJournalpost || out[0]["joarkRef"] != "999" {
		t.Fatalf("unexpected outcomes: %v", out)
	}
	if arsaker, ok := out[0]["valgteÅrsaker"].([]any); !ok || len(arsaker) != 0 {
		t.Errorf("expected empty valgteÅrsaker, got %v", out[0]["valgteÅrsaker"])
	}
}

// TestBrevsending_CoverSheet verifies letters of a type sent by post get a
// cover sheet merged in front before filing.
func TestBrevsending_CoverSheet(t *testing.T) {
	h := newHarness(t)
	errs := h.deliver(t, map[string]any{
		"eventName": events.EventBrevsendingOpprettet, "sakId": "42", "fnrMottaker": fnr, "fnrBruker": fnr,
		"fysiskDokument": base64.StdEncoding.EncodeToString([]byte("BREV")), "dokumenttittel": "Innhente opplysninger",
		"dokumenttype": string(models.DokumenttypeInnhenteOpplysningerBarnebriller), "språkkode": "NB",
		"brevsendingId": "b1", "opprettetAv": "Z999999",
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if h.down.count("POST /foerstesidegenerator/foersteside") != 1 || h.down.count("POST /pdfgen/kombiner-til-pdf") != 1 {
		t.Errorf("expected cover sheet and merge, got %v", h.down.calls)
	}
	req := h.down.opprett[0]
	if string(req.Dokumenter[0].Dokumentvarianter[0].FysiskDokument) != "FS+BREV" {
		t.Errorf("expected merged document, got %q", req.Dokumenter[0].Dokumentvarianter[0].FysiskDokument)
	}
	if req.EksternReferanseID != "42_b1" || req.Journalposttype != models.JournalposttypeUtgaaende {
		t.Errorf("unexpected request: %q %q", req.EksternReferanseID, req.Journalposttype)
	}
	out := h.published(t)
	if len(out) != 1 || out[0]["eventName"] != events.EventBrevsendingJournalfort || out[0]["journalpostId"] != "999" {
		t.Fatalf("unexpected outcomes: %v", out)
	}
}

func TestBrevsending_WithoutCoverSheet(t *testing.T) {
	h := newHarness(t)
	errs := h.deliver(t, map[string]any{
		"eventName": events.EventBrevsendingOpprettet, "sakId": "42", "fnrMottaker": fnr, "fnrBruker": fnr,
		"fysiskDokument": base64.StdEncoding.EncodeToString([]byte("BREV")), "dokumenttittel": "Vedtak",
		"dokumenttype": string(models.DokumenttypeBreveditorVedtaksbrev), "språkkode": "NN",
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if h.down.count("POST /foerstesidegenerator") != 0 {
		t.Errorf("expected no cover sheet")
	}
	if got := string(h.down.opprett[0].Dokumenter[0].Dokumentvarianter[0].FysiskDokument); got != "BREV" {
		t.Errorf("document = %q", got)
	}
}

func TestBarnebrillevedtak(t *testing.T) {
	payload := map[string]any{
		"fnr": fnr, "brukersNavn": "Ola", "orgnr": "999999999",
		"orgNavn": "Brillebutikken", "orgAdresse": "Gata 1", "navnAvsender": "Optiker", "eventId": "e1",
		"opprettetDato": "2024-01-15T10:00:00", "sakId": "42", "brilleseddel": map[string]any{"hoyreSfaere": 1.5},
		"bestillingsdato": "2024-01-10", "bestillingsreferanse": "r", "satsBeskrivelse": "Sats 1",
		"satsBeløp": 750, "beløp": 750,
	}
	tests := []struct {
		eventName string
		wantRef   string
	}{
		{events.EventBarnebrillevedtakOpprettet, "42BARNEBRILLEAPI"},
		{events.EventBarnebrillevedtakRekjor, "RE_42BARNEBRILLEAPI"},
	}
	for _, tt := range tests {
		t.Run(tt.eventName, func(t *testing.T) {
			h := newHarness(t)
			payload["eventName"] = tt.eventName
			if errs := h.deliver(t, payload); len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if h.down.count("POST /soknad-pdfgen/api/v1/genpdf/barnebrille/barnebrille") != 1 {
				t.Errorf("expected barnebrille pdf, got %v", h.down.calls)
			}
			req := h.down.opprett[0]
			if req.EksternReferanseID != tt.wantRef || req.Sak == nil || req.Sak.Fagsaksystem != models.FagsaksystemOptik {
				t.Errorf("unexpected request: %q %+v", req.EksternReferanseID, req.Sak)
			}
			out := h.published(t)
			if len(out) != 1 || out[0]["eventName"] != events.EventOpprettetOgFerdigstiltBarnebrillerJournalpost {
				t.Fatalf("unexpected outcomes: %v", out)
			}
			if ids, _ := out[0]["dokumentIder"].([]any); len(ids) != 1 || ids[0] != "d1" {
				t.Errorf("dokumentIder = %v", out[0]["dokumentIder"])
			}
		})
	}
}

func TestBestillingAvvist_WithoutJournalpost(t *testing.T) {
	h := newHarness(t)
	errs := h.deliver(t, map[string]any{
		"eventName": events.EventBestillingAvvist, "eventId": "e1", "saksnummer": "42", "søknadId": "S1",
		"opprettet": "2024-01-15T10:00:00", "tittel": "Avvist", "dokumenter": []any{},
	})
	if len(errs) != 0 || len(h.down.calls) != 0 {
		t.Fatalf("expected no-op, got errs=%v calls=%v", errs, h.down.calls)
	}
}

func TestSoknadMottak(t *testing.T) {
	h := newHarness(t)
	soknad := map[string]any{"soknad": map[string]any{
		"id": "S1", "bruker": map[string]any{"fornavn": "Ola", "etternavn": "Nordmann"},
	}}
	errs := h.deliver(t, map[string]any{
		"fodselNrBruker": fnr, "fodselNrInnsender": "10987654321", "soknad": soknad,
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(h.repo.lagret) != 1 || h.repo.lagret[0].SoknadID != "S1" || h.repo.lagret[0].FnrInnsender != "10987654321" {
		t.Fatalf("unexpected stored applications: %+v", h.repo.lagret)
	}
	forward, ok := h.repo.forward[0].Event.(events.Soknad)
	if !ok || forward.EventName != events.EventSoknad || forward.NavnBruker != "Nordmann Ola" {
		t.Errorf("unexpected forward: %+v", h.repo.forward[0].Event)
	}
	if len(h.pub.msgs) != 0 {
		t.Errorf("the forward is staged by the repository, not published by the router")
	}
}

// TestSoknadMottak_IgnoresOwnForward verifies the forwarded Søknad event is
// not stored again.
func TestSoknadMottak_IgnoresOwnForward(t *testing.T) {
	h := newHarness(t)
	l := h.byName[SoknadMottak]
	for _, payload := range []string{
		`{"@event_name":"Søknad","@soknadId":"S1","fodselNrBruker":"1","fodselNrInnsender":"2","soknad":{"soknad":{"id":"S1"}}}`,
		`{"@soknadId":"S1","fodselNrBruker":"1","fodselNrInnsender":"2","soknad":{"soknad":{"id":"S1"}}}`,
		`{"eventName":"hm-sakOpprettet","fodselNrBruker":"1"}`,
	} {
		env, err := rapid.ParseEnvelope([]byte(payload))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if l.Accepts(env) {
			t.Errorf("expected %s to be rejected", payload)
		}
	}
}

func TestPolicies(t *testing.T) {
	p := Policies(time.Second)
	if got := p.For(events.EventSakOpprettet).MaxAttempts; got != 3 {
		t.Errorf("sak opprettet attempts = %d", got)
	}
	if got := p.For(events.EventJournalposterKnyttetTilNySak).MaxAttempts; got != 5 {
		t.Errorf("knytt til ny sak attempts = %d", got)
	}
	for _, name := range []string{events.EventSakOpprettet, events.EventBrevsendingOpprettet, "unknown"} {
		pol := p.For(name)
		if len(pol.Absorb) != 1 || len(pol.Permanent) != 3 {
			t.Errorf("%s: unexpected policy %+v", name, pol)
		}
	}
}

func TestAll_UniqueNames(t *testing.T) {
	ls := New(nil, nil, nil, logger.New(&config.Config{LogLevel: "error"}))
	seen := map[string]bool{}
	for _, l := range ls.All() {
		if seen[l.Name()] {
			t.Errorf("duplicate listener %s", l.Name())
		}
		seen[l.Name()] = true
	}
	if len(seen) != 18 {
		t.Errorf("expected 18 listeners, got %d", len(seen))
	}
}

func feilregistrert() map[string]any {
	return map[string]any{
		"eventName": events.EventFeilregistrertSakstilknytning, "soknadId": "S1", "sakId": "42",
		"fnrBruker": fnr, "navnBruker": "Nordmann Ola", "sakstype": "SØKNAD", "nyJournalpostId": "7",
		"soknadJson": map[string]any{"id": "S1"}, "mottattDato": "2024-01-15",
		"dokumentBeskrivelse": "Søknad om rullator", "enhet": "4710",
	}
}

func brilleAvvisning() map[string]any {
	return map[string]any{
		"eventName": events.EventBrilleAvvisning, "eventId": "e1", "opprettet": "2024-05-02T13:45:10",
		"fnrBarn": fnr, "navnBarn": "Kari Nordmann", "orgnr": "999999999", "orgNavn": "Brillebutikken",
		"brilleseddel": map[string]any{
			"høyreSfære": 1.5, "høyreSylinder": -0.25, "venstreSfære": 2, "venstreSylinder": 0,
		},
		"bestillingsdato": "2024-04-30", "eksisterendeVedtakDato": nil,
		"årsaker": []string{"Under18ÅrPåBestillingsdato", "Brillestyrke"},
	}
}

// TestSoknadFordeltGammelFlyt verifies an application routed to Gosys is
// filed without a case link and announced with the new journal post id.
func TestSoknadFordeltGammelFlyt(t *testing.T) {
	h := newHarness(t)
	errs := h.deliver(t, map[string]any{
		"eventName": events.EventSoknadFordeltGammelFlyt, "fodselNrBruker": fnr, "soknadId": "S1",
		"erHast": false, "behovsmeldingType": "BESTILLING",
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if h.down.count("GET /soknad-api/hm/hm-joark-sink/pdf/S1") != 1 {
		t.Errorf("expected the pdf to be fetched, got %v", h.down.calls)
	}
	if len(h.down.opprett) != 1 {
		t.Fatalf("expected 1 opprett call, got %d", len(h.down.opprett))
	}
	req := h.down.opprett[0]
	if req.EksternReferanseID != "S1HJE-DIGITAL-SOKNAD" || req.Sak != nil {
		t.Errorf("unexpected request: ref=%q sak=%+v", req.EksternReferanseID, req.Sak)
	}
	if req.Dokumenter[0].Tittel != "Søknad om hjelpemidler" {
		t.Errorf("dokument tittel = %q", req.Dokumenter[0].Tittel)
	}

	out := h.published(t)
	if len(out) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(out))
	}
	got := out[0]
	if got["eventName"] != events.EventSoknadArkivert || got["joarkRef"] != "999" || got["soknadId"] != "S1" {
		t.Errorf("unexpected outcome: %v", got)
	}
	if got["erHast"] != false || got["sakstype"] != "BESTILLING" || got["fodselNrBruker"] != fnr {
		t.Errorf("unexpected outcome: %v", got)
	}
}

func TestOpprettEtterFeilregistrering(t *testing.T) {
	h := newHarness(t)
	if errs := h.deliver(t, feilregistrert()); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if h.down.count("PATCH") != 0 {
		t.Errorf("the case link is already error-registered, got %v", h.down.calls)
	}
	if len(h.down.opprett) != 1 || h.down.opprett[0].EksternReferanseID != "S1_7_HOTSAK_TIL_GOSYS" {
		t.Fatalf("unexpected opprett calls: %+v", h.down.opprett)
	}
	out := h.published(t)
	if len(out) != 1 || out[0]["eventName"] != events.EventOpprettetMottattJournalpost || out[0]["journalpostId"] != "999" {
		t.Fatalf("unexpected outcomes: %v", out)
	}
}

// TestBrilleAvvisning verifies the rejection letter is rendered and filed as a
// finalized outbound journal post on the general case.
func TestBrilleAvvisning(t *testing.T) {
	h := newHarness(t)
	if errs := h.deliver(t, brilleAvvisning()); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if h.down.count("POST /pdfgen/brev/barnebriller/barnebrillerAvvisningDirekteoppgjor/bokmaal") != 1 {
		t.Fatalf("expected the letter to be rendered, got %v", h.down.calls)
	}
	brev := h.down.brev[0]
	ff := brev.Flettefelter
	if ff.BrevOpprettetDato != "02. mai 2024" || ff.BestillingsDato != "30. april 2024" || ff.ForrigeBrilleDato != "" {
		t.Errorf("unexpected dates: %+v", ff)
	}
	if ff.OptikerForretning != "Brillebutikken (999999999)" || ff.BarnetsFulleNavn != "Kari Nordmann" {
		t.Errorf("unexpected merge fields: %+v", ff)
	}
	if ff.SfaeriskStyrkeHoyre != "1.5" || ff.CylinderstyrkeHoyre != "-0.25" || ff.SfaeriskStyrkeVenstre != "2.0" || ff.CylinderstyrkeVenstre != "0.0" {
		t.Errorf("unexpected strengths: %+v", ff)
	}
	if len(brev.Begrunnelser) != 2 || brev.Begrunnelser[0] != "stansetOver18" || brev.Begrunnelser[1] != "stansetForLavBrillestyrke" {
		t.Errorf("begrunnelser = %v", brev.Begrunnelser)
	}
	if !brev.Betingelser.ViseNavAdresse || brev.Betingelser.ViseNavAdresseHoT {
		t.Errorf("betingelser = %+v", brev.Betingelser)
	}

	if h.down.count("POST /dokarkiv/journalpost") != 1 {
		t.Fatalf("expected one opprett call, got %v", h.down.calls)
	}
	req := h.down.opprett[0]
	if req.Journalposttype != models.JournalposttypeUtgaaende || req.Kanal != models.KanalSentralPrint {
		t.Errorf("unexpected type or channel: %q %q", req.Journalposttype, req.Kanal)
	}
	if req.Sak == nil || req.Sak.Sakstype != "GENERELL_SAK" || req.EksternReferanseID != "e1BARNEBRILLEAVVISNING" {
		t.Errorf("unexpected request: %q %+v", req.EksternReferanseID, req.Sak)
	}
	if d := req.Dokumenter[0]; d.Brevkode != "krav_barnebriller_optiker_avvisning" || string(d.Dokumentvarianter[0].FysiskDokument) != "AVVISNING" {
		t.Errorf("unexpected document: %q", d.Brevkode)
	}
	if len(h.pub.msgs) != 0 {
		t.Errorf("expected no outcomes, got %d", len(h.pub.msgs))
	}
}

func TestJournalfortNotat_Tilleggsopplysninger(t *testing.T) {
	h := newHarness(t)
	errs := h.deliver(t, map[string]any{
		"eventName": events.EventJournalfortNotatOpprettet, "sakId": "42", "fnrBruker": fnr,
		"fysiskDokument": base64.StdEncoding.EncodeToString([]byte("NOTAT")), "dokumenttittel": "Notat",
		"språkkode": "NB", "notatId": "n1",
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	req := h.down.opprett[0]
	want := []models.Tilleggsopplysning{{Nokkel: "hotsak_sakId", Verdi: "42"}, {Nokkel: "hotsak_saksnotatId", Verdi: "n1"}}
	if len(req.Tilleggsopplysninger) != len(want) {
		t.Fatalf("tilleggsopplysninger = %+v", req.Tilleggsopplysninger)
	}
	for i := range want {
		if req.Tilleggsopplysninger[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, req.Tilleggsopplysninger[i], want[i])
		}
	}
	if req.EksternReferanseID != "hotsak-jfrnotat-42_n1" || req.Journalposttype != models.JournalposttypeNotat {
		t.Errorf("unexpected request: %q %q", req.EksternReferanseID, req.Journalposttype)
	}
}
