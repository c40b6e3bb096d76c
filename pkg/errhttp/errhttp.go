// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/hmjoarksink/pkg/auth"
	"github.com/ghuser/hmjoarksink/pkg/events"
	"github.com/ghuser/hmjoarksink/pkg/httpx"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, mapErrorToStatus(err), err.Error())
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, events.ErrInvalidEvent):
		return http.StatusBadRequest // 400
	case errors.Is(err, auth.ErrOperatorNotFound):
		return http.StatusUnauthorized // 401
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict // 409
	case errors.Is(err, domain.ErrUnsupportedStatus),
		errors.Is(err, domain.ErrUnsupportedSakstype),
		errors.Is(err, domain.ErrNoDocuments):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, domain.ErrArchive),
		errors.Is(err, domain.ErrLookup),
		errors.Is(err, domain.ErrPdf),
		errors.Is(err, domain.ErrCoverSheet):
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}
