package forsteside

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ghuser/hmjoarksink/pkg/config"
	"github.com/ghuser/hmjoarksink/pkg/httpclient"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/builders"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	hc, err := httpclient.New(httpclient.Config{Name: "forsteside", BaseURL: srv.URL, InitialInterval: time.Millisecond})
	if err != nil {
		t.Fatalf("httpclient: %v", err)
	}
	return New(hc, logger.New(&config.Config{LogLevel: "error"}))
}

func request() *builders.ForstesideRequest {
	return builders.NewForsteside("Innhente opplysninger", "12345678910").
		Sprakkode(models.SprakkodeNN).
		Brevkode("NAV 10-07.34").
		Build()
}

func TestLagForsteside(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/foersteside" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["spraakkode"] != "NN" || body["navSkjemaId"] != "NAV 10-07.34" {
			t.Errorf("unexpected body %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"loepenummer":"1","foersteside":"AQID"}`)
	})

	got, err := c.LagForsteside(context.Background(), request())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.FysiskDokument) != 3 || got.Brevkode != "NAV 10-07.34" || got.Tittel != "Innhente opplysninger" {
		t.Errorf("got %+v", got)
	}
}

func TestLagForsteside_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"wrong status", http.StatusOK, `{"loepenummer":"1","foersteside":"AQID"}`},
		{"missing loepenummer", http.StatusCreated, `{"foersteside":"AQID"}`},
		{"missing foersteside", http.StatusCreated, `{"loepenummer":"1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			if _, err := c.LagForsteside(context.Background(), request()); !errors.Is(err, domain.ErrCoverSheet) {
				t.Fatalf("expected ErrCoverSheet, got %v", err)
			}
		})
	}
}
