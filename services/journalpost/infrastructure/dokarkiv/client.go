// Package dokarkiv is the client for the document archive's journalpost API.
//
// Creation is keyed on eksternReferanseId: the archive answers 409 with the
// existing journal post when the key was used before, and the client treats
// that as success.
package dokarkiv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ghuser/hmjoarksink/pkg/httpclient"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
)

// NavUserIDHeader names the caseworker a journal post is created on behalf of.
const NavUserIDHeader = "Nav-User-Id"

const alreadyFeilregistrert = "Saksrelasjonen er allerede feilregistrert"

// Error is a non-success answer from the archive. It matches
// domain.ErrArchive, and domain.ErrConflict when Status is 409.
type Error struct {
	Method string
	URL    string
	Status int
	Body   string
}

func newError(resp *httpclient.Response) *Error {
	return &Error{Method: resp.Method, URL: resp.URL, Status: resp.StatusCode, Body: string(resp.Body)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("dokarkiv: unexpected response from '%s %s', status: %d, body: '%s'", e.Method, e.URL, e.Status, e.Body)
}

// Is implements errors.Is.
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrArchive:
		return true
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}

// Client calls dokarkiv.
type Client struct {
	http *httpclient.Client
	log  logger.Logger
}

// New returns a Client over c. c must be bound to the journalpostapi/v1 base.
func New(c *httpclient.Client, log logger.Logger) *Client {
	return &Client{http: c, log: log}
}

// OpprettJournalpost creates a journal post. A 409 means the
// eksternReferanseId was used before; the existing journal post is returned.
// With forsoekFerdigstill the archive must also finalize it, otherwise
// domain.ErrNotFinalized is returned.
func (c *Client) OpprettJournalpost(ctx context.Context, req *models.OpprettJournalpostRequest, forsoekFerdigstill bool, opprettetAv string) (*models.OpprettJournalpostResponse, error) {
	opts := []httpclient.RequestOption{httpclient.WithQuery("forsoekFerdigstill", strconv.FormatBool(forsoekFerdigstill))}
	if opprettetAv != "" {
		opts = append(opts, httpclient.WithHeader(NavUserIDHeader, opprettetAv))
	}
	resp, err := c.http.PostJSON(ctx, "journalpost", req, opts...)
	if err != nil {
		return nil, fmt.Errorf("dokarkiv: opprett journalpost: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusCreated:
	case http.StatusConflict:
		c.log.WarnContext(ctx, "dokarkiv: journalpost already exists for eksternReferanseId",
			"eksternReferanseId", req.EksternReferanseID)
	default:
		return nil, newError(resp)
	}

	var out models.OpprettJournalpostResponse
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, fmt.Errorf("dokarkiv: %w: %w", domain.ErrArchive, err)
	}
	if out.JournalpostID == "" {
		return nil, fmt.Errorf("dokarkiv: %w: response without journalpostId", domain.ErrArchive)
	}
	if forsoekFerdigstill != out.JournalpostFerdigstilt {
		return nil, fmt.Errorf("dokarkiv: journalpost %s: %w", out.JournalpostID, domain.ErrNotFinalized)
	}
	return &out, nil
}

// OppdaterJournalpost changes the set fields of a journal post.
func (c *Client) OppdaterJournalpost(ctx context.Context, journalpostID string, req *models.OppdaterJournalpostRequest) (string, error) {
	resp, err := c.http.PutJSON(ctx, "journalpost/"+journalpostID, req)
	if err != nil {
		return "", fmt.Errorf("dokarkiv: oppdater journalpost: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", newError(resp)
	}
	var out models.OppdaterJournalpostResponse
	if len(resp.Body) > 0 {
		if err := resp.DecodeJSON(&out); err != nil {
			return "", fmt.Errorf("dokarkiv: %w: %w", domain.ErrArchive, err)
		}
	}
	if out.JournalpostID == "" {
		out.JournalpostID = journalpostID
	}
	return out.JournalpostID, nil
}

// FerdigstillJournalpost finalizes a journal post on enhet.
func (c *Client) FerdigstillJournalpost(ctx context.Context, journalpostID, enhet string) error {
	resp, err := c.http.PatchJSON(ctx, "journalpost/"+journalpostID+"/ferdigstill",
		models.FerdigstillJournalpostRequest{JournalfoerendeEnhet: enhet})
	if err != nil {
		return fmt.Errorf("dokarkiv: ferdigstill journalpost: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return newError(resp)
	}
	return nil
}

// FeilregistrerSakstilknytning marks the case link of a journal post as
// erroneous. Doing it twice is not an error.
func (c *Client) FeilregistrerSakstilknytning(ctx context.Context, journalpostID string) error {
	resp, err := c.http.PatchJSON(ctx, "journalpost/"+journalpostID+"/feilregistrer/feilregistrerSakstilknytning", nil)
	if err != nil {
		return fmt.Errorf("dokarkiv: feilregistrer sakstilknytning: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusBadRequest && responseMessage(resp) == alreadyFeilregistrert:
		c.log.InfoContext(ctx, "dokarkiv: sakstilknytning already feilregistrert", "journalpostId", journalpostID)
		return nil
	case resp.StatusCode == http.StatusConflict:
		c.log.InfoContext(ctx, "dokarkiv: feilregistrer sakstilknytning answered conflict, treating as done",
			"journalpostId", journalpostID)
		return nil
	default:
		return newError(resp)
	}
}

// KnyttTilAnnenSak copies a finalized journal post to another case and
// returns the id of the copy.
func (c *Client) KnyttTilAnnenSak(ctx context.Context, journalpostID string, req *models.KnyttTilAnnenSakRequest) (string, error) {
	resp, err := c.http.PutJSON(ctx, "journalpost/"+journalpostID+"/knyttTilAnnenSak", req)
	if err != nil {
		return "", fmt.Errorf("dokarkiv: knytt til annen sak: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", newError(resp)
	}
	var out models.KnyttTilAnnenSakResponse
	if err := resp.DecodeJSON(&out); err != nil {
		return "", fmt.Errorf("dokarkiv: %w: %w", domain.ErrArchive, err)
	}
	if out.NyJournalpostID == "" {
		return "", fmt.Errorf("dokarkiv: %w: knyttTilAnnenSak returned no nyJournalpostId for %s", domain.ErrArchive, journalpostID)
	}
	return out.NyJournalpostID, nil
}

// OverstyrInnsyn lets the user see a journal post that the archive would
// otherwise hide.
func (c *Client) OverstyrInnsyn(ctx context.Context, journalpostID string) error {
	_, err := c.OppdaterJournalpost(ctx, journalpostID, &models.OppdaterJournalpostRequest{
		OverstyrInnsynsregler: models.InnsynVisesMaskineltGodkjent,
	})
	return err
}

func responseMessage(resp *httpclient.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return ""
	}
	return body.Message
}
