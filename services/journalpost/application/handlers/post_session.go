package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/hmjoarksink/pkg/auth"
	"github.com/ghuser/hmjoarksink/pkg/httpx"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	pkgvalidator "github.com/ghuser/hmjoarksink/pkg/validator"
)

// CreateSessionRequest is the request body for POST /internal/session.
type CreateSessionRequest struct {
	NavIdent string `json:"navIdent" validate:"required,alphanum,max=20" example:"Z999999"`
} // @name CreateSessionRequest

// CreateSessionResponse is returned when the session was created.
type CreateSessionResponse struct {
	NavIdent string `json:"navIdent" example:"Z999999"`
} // @name CreateSessionResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"authentication required"`
} // @name ErrorResponse

// PostSessionHandler handles POST /internal/session requests.
type PostSessionHandler struct {
	store  sessions.Store
	apiKey string
	log    logger.Logger
}

// NewPostSessionHandler returns a PostSessionHandler that accepts apiKey.
func NewPostSessionHandler(store sessions.Store, apiKey string, log logger.Logger) *PostSessionHandler {
	return &PostSessionHandler{store: store, apiKey: apiKey, log: log}
}

// Execute logs an operator in.
//
//	@Summary		Create operator session
//	@Description	Starts a session for an operator holding the internal API key
//	@Tags			internal
//	@Accept			json
//	@Produce		json
//	@Param			X-Api-Key	header		string					true	"Internal API key"
//	@Param			request		body		CreateSessionRequest	true	"Operator"
//	@Success		201			{object}	CreateSessionResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/internal/session [post]
func (h *PostSessionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if !auth.ValidAPIKey(r, h.apiKey) {
		h.log.WarnContext(r.Context(), "session request with invalid api key")
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateSessionRequest](w, r)
	if !ok {
		return
	}

	if err := auth.StartSession(w, r, h.store, req.NavIdent); err != nil {
		h.log.ErrorContext(r.Context(), "failed to save session", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	h.log.InfoContext(r.Context(), "operator session created", "nav_ident", req.NavIdent)
	httpx.JSON(w, http.StatusCreated, CreateSessionResponse{NavIdent: req.NavIdent})
}
