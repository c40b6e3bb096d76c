package pdf

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
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logger.New(&config.Config{LogLevel: "error"})
	hc := func(name string) *httpclient.Client {
		c, err := httpclient.New(httpclient.Config{Name: name, BaseURL: srv.URL, InitialInterval: time.Millisecond})
		if err != nil {
			t.Fatalf("httpclient: %v", err)
		}
		return c
	}
	return New(hc("soknad-pdfgen"), hc("pdfgen"), log)
}

func TestGenererPdf_RawJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/genpdf/barnebrille/barnebrille" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Accept") != "application/pdf" {
			t.Errorf("Accept: got %q", r.Header.Get("Accept"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"id":"S1"}` {
			t.Errorf("body: got %s", body)
		}
		_, _ = w.Write([]byte{1, 2, 3})
	})

	got, err := c.GenererBarnebrillePdf(context.Background(), json.RawMessage(`{"id":"S1"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 1 {
		t.Errorf("got %v", got)
	}
}

func TestGenererPdf_Error(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	_, err := c.GenererBarnebrillePdf(context.Background(), map[string]string{"sakId": "1"})
	if !errors.Is(err, domain.ErrPdf) {
		t.Fatalf("expected ErrPdf, got %v", err)
	}
}

// TestKombinerPdf verifies parts are sent as ordered multipart form files.
func TestKombinerPdf(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/kombiner-til-pdf" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		for i, name := range []string{"pdf_1", "pdf_2"} {
			fh := r.MultipartForm.File[name]
			if len(fh) != 1 {
				t.Errorf("missing part %s", name)
				continue
			}
			f, _ := fh[0].Open()
			b, _ := io.ReadAll(f)
			if len(b) != 1 || b[0] != byte(i+1) {
				t.Errorf("part %s: got %v", name, b)
			}
		}
		_, _ = w.Write([]byte("merged"))
	})

	got, err := c.KombinerPdf(context.Background(), []byte{1}, []byte{2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "merged" {
		t.Errorf("got %q", got)
	}
}

func TestGenererBrev(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/brev/barnebriller/innhente/BOKMAL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("brev"))
	})
	if _, err := c.GenererBrev(context.Background(), "barnebriller", "innhente", "BOKMAL", map[string]any{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
