// file: internal/handlers/api/v1/status/status_controller.go
package status

import (
	"encoding/json"
	"net/http"

	"wishlink/internal/response"
	"wishlink/internal/services"

	"go.uber.org/zap"
)

type StatusController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewStatusController creates a new status controller
func NewStatusController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *StatusController {
	return &StatusController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// completePayload names the winning submission and its request
type completePayload struct {
	FulfillmentID int64  `json:"fulfillment_id"`
	WishID        *int64 `json:"wish_id,omitempty"`
	SpeechID      *int64 `json:"speech_id,omitempty"`
}

// Complete marks a request as completed with a selected fulfillment
func (c *StatusController) Complete(w http.ResponseWriter, r *http.Request) {
	var payload completePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	target := services.FulfillmentSearchRequest{WishID: payload.WishID, SpeechID: payload.SpeechID}
	kind, requestID, ok := target.Kind()
	if !ok {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("exactly one of wish_id and speech_id must be set", nil))
		return
	}

	record, err := c.serviceCollection.Status.Complete(r.Context(), &services.CompleteRequest{
		Kind:          kind,
		RequestID:     requestID,
		FulfillmentID: payload.FulfillmentID,
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, record)
}
