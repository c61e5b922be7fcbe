// file: internal/handlers/api/v1/fulfillments/fulfillments_controller.go
package fulfillments

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"wishlink/internal/models"
	"wishlink/internal/pagination"
	"wishlink/internal/response"
	"wishlink/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type FulfillmentController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewFulfillmentController creates a new fulfillment controller
func NewFulfillmentController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *FulfillmentController {
	return &FulfillmentController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// Submit handles proof-of-fulfillment submission
func (c *FulfillmentController) Submit(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitFulfillmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	fulfillment, err := c.serviceCollection.Fulfillment.Submit(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, fulfillment)
}

// Search lists submissions for one request named by wish_id or speech_id
func (c *FulfillmentController) Search(w http.ResponseWriter, r *http.Request) {
	var req services.FulfillmentSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	fulfillments, err := c.serviceCollection.Fulfillment.ListForRequest(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, fulfillments)
}

// GetFulfillment handles retrieving a specific submission
func (c *FulfillmentController) GetFulfillment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid fulfillment ID", err))
		return
	}

	fulfillment, err := c.serviceCollection.Fulfillment.GetFulfillmentByID(r.Context(), id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, fulfillment)
}

// ListEvents handles the activity feed, optionally filtered to completed
// requests.
func (c *FulfillmentController) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := pagination.ParsePage(query.Get("page"))

	completedOnly := false
	if raw := query.Get("isCompleted"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.responseBuilder.WriteError(w, r, services.NewValidationError("isCompleted must be a boolean", err))
			return
		}
		completedOnly = parsed
	}

	events, err := c.serviceCollection.Fulfillment.ListEvents(r.Context(), completedOnly, page)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	response.WritePage(c.responseBuilder, w, r, events)
}

// GetLatestEvent returns the earliest submission for one request
func (c *FulfillmentController) GetLatestEvent(w http.ResponseWriter, r *http.Request) {
	kind := models.RequestKind(mux.Vars(r)["kind"])
	if !kind.Valid() {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("kind must be wish or speech", nil))
		return
	}

	requestID, err := pathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request ID", err))
		return
	}

	event, err := c.serviceCollection.Fulfillment.LatestFor(r.Context(), kind, requestID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, event)
}

// pathID parses a positive integer path variable
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return id, nil
}
