// Package forsteside is the client for the cover sheet generator.
package forsteside

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ghuser/hmjoarksink/pkg/httpclient"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/builders"
)

// Forsteside is a generated cover sheet.
type Forsteside struct {
	FysiskDokument []byte
	Tittel         string
	Brevkode       string
}

type opprettResponse struct {
	Loepenummer *string `json:"loepenummer"`
	Foersteside []byte  `json:"foersteside"`
}

// Client calls the cover sheet generator.
type Client struct {
	http *httpclient.Client
	log  logger.Logger
}

// New returns a Client over c.
func New(c *httpclient.Client, log logger.Logger) *Client {
	return &Client{http: c, log: log}
}

// LagForsteside generates a cover sheet for req.
func (c *Client) LagForsteside(ctx context.Context, req *builders.ForstesideRequest) (*Forsteside, error) {
	c.log.InfoContext(ctx, "forsteside: lager forsteside",
		"brevkode", req.NavSkjemaID, "tittel", req.Overskriftstittel,
		"arkivtittel", req.Arkivtittel, "enhetsnummer", req.Enhetsnummer)

	resp, err := c.http.PostJSON(ctx, "foersteside", req)
	if err != nil {
		return nil, fmt.Errorf("forsteside: %w: %w", domain.ErrCoverSheet, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("forsteside: %w: %w", domain.ErrCoverSheet, resp.Error())
	}

	var out opprettResponse
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, fmt.Errorf("forsteside: %w: %w", domain.ErrCoverSheet, err)
	}
	if out.Loepenummer == nil {
		return nil, fmt.Errorf("forsteside: %w: response without loepenummer", domain.ErrCoverSheet)
	}
	if len(out.Foersteside) == 0 {
		return nil, fmt.Errorf("forsteside: %w: response without foersteside", domain.ErrCoverSheet)
	}
	c.log.InfoContext(ctx, "forsteside: generert", "loepenummer", *out.Loepenummer)

	return &Forsteside{
		FysiskDokument: out.Foersteside,
		Tittel:         req.Overskriftstittel,
		Brevkode:       req.NavSkjemaID,
	}, nil
}
