// Package soknadapi fetches rendered applications from the søknad API.
package soknadapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ghuser/hmjoarksink/pkg/httpclient"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain"
)

const pdfPath = "hm/hm-joark-sink/pdf"

// Client calls the søknad API.
type Client struct {
	http *httpclient.Client
	log  logger.Logger
}

// New returns a Client over c. c carries the bearer token source.
func New(c *httpclient.Client, log logger.Logger) *Client {
	return &Client{http: c, log: log}
}

// HentBehovsmeldingPdf returns the rendered application soknadID.
func (c *Client) HentBehovsmeldingPdf(ctx context.Context, soknadID string) ([]byte, error) {
	c.log.InfoContext(ctx, "soknadapi: henter pdf", "soknadId", soknadID)
	resp, err := c.http.Get(ctx, pdfPath+"/"+soknadID, httpclient.WithHeader("Accept", "application/pdf"))
	if err != nil {
		return nil, fmt.Errorf("soknadapi: %w: %w", domain.ErrPdf, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("soknadapi: %w: %w", domain.ErrPdf, resp.Error())
	}
	return resp.Body, nil
}
