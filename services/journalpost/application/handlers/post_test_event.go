package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ghuser/hmjoarksink/pkg/auth"
	"github.com/ghuser/hmjoarksink/pkg/errhttp"
	"github.com/ghuser/hmjoarksink/pkg/events"
	"github.com/ghuser/hmjoarksink/pkg/httpx"
	"github.com/ghuser/hmjoarksink/pkg/logger"
	pkgvalidator "github.com/ghuser/hmjoarksink/pkg/validator"
)

// TestEventRequest is the request body for POST /internal/test-api.
type TestEventRequest struct {
	Body   json.RawMessage `json:"body" validate:"required_json" swaggertype:"object"`
	DryRun bool            `json:"dryRun" example:"true"`
} // @name TestEventRequest

// TestEventResponse reports what was done with the event.
type TestEventResponse struct {
	EventName string `json:"eventName" example:"hm-sakOpprettet"`
	Published bool   `json:"published" example:"false"`
} // @name TestEventResponse

// PostTestEventHandler handles POST /internal/test-api requests.
type PostTestEventHandler struct {
	pub   events.Publisher
	topic string
	log   logger.Logger
}

// NewPostTestEventHandler returns a handler publishing to topic through pub.
func NewPostTestEventHandler(pub events.Publisher, topic string, log logger.Logger) *PostTestEventHandler {
	return &PostTestEventHandler{pub: pub, topic: topic, log: log}
}

// Execute puts a hand-written event on the rapid.
//
//	@Summary		Publish test event
//	@Description	Publishes an event to the rapid. With dryRun the event is only checked.
//	@Tags			internal
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TestEventRequest	true	"Event"
//	@Success		200		{object}	TestEventResponse
//	@Success		202		{object}	TestEventResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/internal/test-api [post]
func (h *PostTestEventHandler) Execute(w http.ResponseWriter, r *http.Request) {
	operator, err := auth.OperatorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[TestEventRequest](w, r)
	if !ok {
		return
	}

	env, err := events.ParseEnvelope(req.Body)
	if err != nil || env.Name == "" {
		errhttp.WriteError(w, &events.ValidationError{
			Listener: "test-api",
			Fields:   map[string]string{"body.eventName": "This field is required"},
		})
		return
	}

	if req.DryRun {
		httpx.JSON(w, http.StatusOK, TestEventResponse{EventName: env.Name})
		return
	}

	msg, err := events.Outcome{Key: env.String("fnrBruker"), Event: req.Body}.Message()
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if err := h.pub.Publish(r.Context(), h.topic, msg); err != nil {
		h.log.ErrorContext(r.Context(), "failed to publish test event", "event_name", env.Name, "error", err)
		errhttp.WriteError(w, err)
		return
	}
	h.log.InfoContext(r.Context(), "test event published",
		"event_name", env.Name, "event_id", env.ID, "nav_ident", operator)
	httpx.JSON(w, http.StatusAccepted, TestEventResponse{EventName: env.Name, Published: true})
}
