// Package pdf renders and merges PDF documents.
package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/ghuser/hmjoarksink/pkg/httpclient"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain"
)

const genpdfPath = "api/v1/genpdf"

// TemplateBarnebrille is the optician claim template, as "{app}/{template}".
const TemplateBarnebrille = "barnebrille/barnebrille"

// Letters rendered by the general PDF generator.
const (
	BrevmappeBarnebriller       = "barnebriller"
	BrevAvvisningDirekteoppgjor = "barnebrillerAvvisningDirekteoppgjor"
	MalformBokmal               = "bokmaal"
)

// Client talks to the søknad PDF generator (templates) and the general PDF
// generator (merging and letters).
type Client struct {
	genpdf *httpclient.Client
	pdfgen *httpclient.Client
	log    logger.Logger
}

// New returns a Client. genpdf is bound to the søknad PDF generator and
// pdfgen to the general one.
func New(genpdf, pdfgen *httpclient.Client, log logger.Logger) *Client {
	return &Client{genpdf: genpdf, pdfgen: pdfgen, log: log}
}

// GenererPdf renders data with template.
func (c *Client) GenererPdf(ctx context.Context, template string, data any) ([]byte, error) {
	c.log.InfoContext(ctx, "pdf: genererer pdf", "template", template)
	body, err := encode(data)
	if err != nil {
		return nil, err
	}
	return c.expectPdf(c.genpdf.Do(ctx, httpclient.Request{
		Method:      http.MethodPost,
		Path:        genpdfPath + "/" + template,
		Header:      acceptPdf(),
		Body:        body,
		ContentType: "application/json",
	}))
}

// GenererBarnebrillePdf renders an optician's barnebriller claim.
func (c *Client) GenererBarnebrillePdf(ctx context.Context, data any) ([]byte, error) {
	return c.GenererPdf(ctx, TemplateBarnebrille, data)
}

// KombinerPdf merges parts into one document, in order.
func (c *Client) KombinerPdf(ctx context.Context, parts ...[]byte) ([]byte, error) {
	c.log.InfoContext(ctx, "pdf: kombinerer dokumenter", "count", len(parts))
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for i, part := range parts {
		name := fmt.Sprintf("pdf_%d", i+1)
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="%s.pdf"`, name, name))
		h.Set("Content-Type", "application/pdf")
		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("pdf: create part %s: %w", name, err)
		}
		if _, err := pw.Write(part); err != nil {
			return nil, fmt.Errorf("pdf: write part %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("pdf: close multipart: %w", err)
	}
	return c.expectPdf(c.pdfgen.Do(ctx, httpclient.Request{
		Method:      http.MethodPost,
		Path:        "kombiner-til-pdf",
		Header:      acceptPdf(),
		Body:        buf.Bytes(),
		ContentType: w.FormDataContentType(),
	}))
}

// GenererBrev renders letter brevID from folder mappe in malform.
func (c *Client) GenererBrev(ctx context.Context, mappe, brevID, malform string, data any) ([]byte, error) {
	c.log.InfoContext(ctx, "pdf: genererer brev", "mappe", mappe, "brevId", brevID, "malform", malform)
	body, err := encode(data)
	if err != nil {
		return nil, err
	}
	return c.expectPdf(c.pdfgen.Do(ctx, httpclient.Request{
		Method:      http.MethodPost,
		Path:        "brev/" + mappe + "/" + brevID + "/" + malform,
		Header:      acceptPdf(),
		Body:        body,
		ContentType: "application/json",
	}))
}

func (c *Client) expectPdf(resp *httpclient.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, fmt.Errorf("pdf: %w: %w", domain.ErrPdf, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pdf: %w: %w", domain.ErrPdf, resp.Error())
	}
	return resp.Body, nil
}

func encode(data any) ([]byte, error) {
	if raw, ok := data.(json.RawMessage); ok {
		return raw, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("pdf: encode data: %w", err)
	}
	return b, nil
}

func acceptPdf() http.Header {
	return http.Header{"Accept": []string{"application/pdf"}}
}
