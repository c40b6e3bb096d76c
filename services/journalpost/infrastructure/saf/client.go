// Package saf looks up journal posts and documents in the archive's query
// service.
package saf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ghuser/hmjoarksink/pkg/httpclient"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
)

const journalpostFields = `
	journalpostId
	tittel
	journalposttype
	journalstatus
	tema
	kanal
	behandlingstema
	eksternReferanseId
	datoOpprettet
	journalfoerendeEnhet
	avsenderMottaker { id type navn }
	bruker { id type }
	sak { fagsakId fagsaksystem sakstype }
	dokumenter {
		dokumentInfoId
		tittel
		brevkode
		dokumentvarianter { variantformat filtype }
	}`

const hentJournalpostQuery = `query HentJournalpost($journalpostId: String!) {
	journalpost(journalpostId: $journalpostId) {` + journalpostFields + `
	}
}`

const hentDokumentoversiktSakQuery = `query HentDokumentoversiktSak($fagsakId: String!, $foerste: Int!, $etter: String) {
	dokumentoversiktFagsak(fagsak: {fagsakId: $fagsakId, fagsaksystem: "HJELPEMIDLER"}, foerste: $foerste, etter: $etter) {
		journalposter {` + journalpostFields + `
		}
		sideInfo { sluttpeker finnesNesteSide }
	}
}`

// dokumentoversiktSidestorrelse is the page size used when listing a case.
const dokumentoversiktSidestorrelse = 100

// errorCodeNotFound is the extension code SAF uses for unknown ids.
const errorCodeNotFound = "not_found"

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type graphQLResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// Client calls SAF.
type Client struct {
	graphql *httpclient.Client
	rest    *httpclient.Client
	log     logger.Logger
}

// New returns a Client. graphql is bound to the GraphQL endpoint, rest to
// the REST base.
func New(graphql, rest *httpclient.Client, log logger.Logger) *Client {
	return &Client{graphql: graphql, rest: rest, log: log}
}

// HentJournalpost looks up one journal post. It returns nil and no error
// when SAF does not know the id.
func (c *Client) HentJournalpost(ctx context.Context, journalpostID string) (*models.Journalpost, error) {
	var data struct {
		Journalpost *models.Journalpost `json:"journalpost"`
	}
	found, err := query(ctx, c.graphql, hentJournalpostQuery, map[string]any{"journalpostId": journalpostID}, &data)
	if err != nil || !found {
		return nil, err
	}
	return data.Journalpost, nil
}

type sideInfo struct {
	Sluttpeker      string `json:"sluttpeker"`
	FinnesNesteSide bool   `json:"finnesNesteSide"`
}

// HentJournalposterForSak lists the journal posts linked to a Hotsak case,
// following the cursor until SAF reports no further page.
func (c *Client) HentJournalposterForSak(ctx context.Context, sakID string) ([]models.Journalpost, error) {
	var (
		out   []models.Journalpost
		etter *string
	)
	for side := 1; ; side++ {
		var data struct {
			DokumentoversiktFagsak struct {
				Journalposter []*models.Journalpost `json:"journalposter"`
				SideInfo      sideInfo              `json:"sideInfo"`
			} `json:"dokumentoversiktFagsak"`
		}
		vars := map[string]any{"fagsakId": sakID, "foerste": dokumentoversiktSidestorrelse, "etter": etter}
		found, err := query(ctx, c.graphql, hentDokumentoversiktSakQuery, vars, &data)
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}
		for _, jp := range data.DokumentoversiktFagsak.Journalposter {
			if jp != nil {
				out = append(out, *jp)
			}
		}

		info := data.DokumentoversiktFagsak.SideInfo
		if !info.FinnesNesteSide {
			break
		}
		if info.Sluttpeker == "" || (etter != nil && *etter == info.Sluttpeker) {
			return nil, fmt.Errorf("saf: %w: dokumentoversikt for sak %s page %d has no usable cursor",
				domain.ErrLookup, sakID, side)
		}
		etter = &info.Sluttpeker
		c.log.DebugContext(ctx, "henter neste side av dokumentoversikt", "sak_id", sakID, "side", side+1)
	}
	if out == nil {
		out = []models.Journalpost{}
	}
	return out, nil
}

// HentDokument downloads one variant of a document.
func (c *Client) HentDokument(ctx context.Context, journalpostID, dokumentInfoID, variantformat string) ([]byte, error) {
	resp, err := c.rest.Get(ctx, "hentdokument/"+journalpostID+"/"+dokumentInfoID+"/"+variantformat,
		httpclient.WithHeader("Accept", "*/*"))
	if err != nil {
		return nil, fmt.Errorf("saf: %w: %w", domain.ErrLookup, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("saf: %w: %w", domain.ErrLookup, resp.Error())
	}
	return resp.Body, nil
}

// query runs q and decodes data into out. It reports false when SAF
// answered not_found.
func query[T any](ctx context.Context, c *httpclient.Client, q string, vars map[string]any, out *T) (bool, error) {
	resp, err := c.PostJSON(ctx, "", graphQLRequest{Query: q, Variables: vars})
	if err != nil {
		return false, fmt.Errorf("saf: %w: %w", domain.ErrLookup, err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("saf: %w: %w", domain.ErrLookup, resp.Error())
	}
	var body graphQLResponse[json.RawMessage]
	if err := resp.DecodeJSON(&body); err != nil {
		return false, fmt.Errorf("saf: %w: %w", domain.ErrLookup, err)
	}
	if len(body.Errors) > 0 {
		if notFound(body.Errors) {
			return false, nil
		}
		return false, fmt.Errorf("saf: %w: %s", domain.ErrLookup, messages(body.Errors))
	}
	if body.Data == nil {
		return false, fmt.Errorf("saf: %w: both data and errors were empty", domain.ErrLookup)
	}
	if err := json.Unmarshal(*body.Data, out); err != nil {
		return false, fmt.Errorf("saf: %w: decode data: %w", domain.ErrLookup, err)
	}
	return true, nil
}

func notFound(errs []graphQLError) bool {
	for _, e := range errs {
		if e.Extensions.Code != errorCodeNotFound {
			return false
		}
	}
	return true
}

func messages(errs []graphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}
