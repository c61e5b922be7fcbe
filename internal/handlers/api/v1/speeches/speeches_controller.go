// file: internal/handlers/api/v1/speeches/speeches_controller.go
package speeches

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

type SpeechController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewSpeechController creates a new speech controller
func NewSpeechController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *SpeechController {
	return &SpeechController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// pickPayload matches the pick endpoint body for this family
type pickPayload struct {
	SpeechID int64 `json:"speech_id"`
	UserID   int64 `json:"user_id"`
}

// CreateSpeech handles speech creation
func (c *SpeechController) CreateSpeech(w http.ResponseWriter, r *http.Request) {
	var req services.CreateSpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	speech, err := c.serviceCollection.Speech.CreateSpeech(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, speech)
}

// GetSpeech handles retrieving a specific speech with its lifecycle state
func (c *SpeechController) GetSpeech(w http.ResponseWriter, r *http.Request) {
	speechID, err := pathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid speech ID", err))
		return
	}

	speech, err := c.serviceCollection.Speech.GetSpeechByID(r.Context(), speechID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, speech)
}

// ListSpeeches handles the paginated speech feed
func (c *SpeechController) ListSpeeches(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	speeches, err := c.serviceCollection.Speech.ListSpeeches(r.Context(), page)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	response.WritePage(c.responseBuilder, w, r, speeches)
}

// ListByCategory handles category filtered listing
func (c *SpeechController) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	speeches, err := c.serviceCollection.Speech.ListSpeechesByCategory(r.Context(), category, page)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	response.WritePage(c.responseBuilder, w, r, speeches)
}

// ListByUser handles the per-creator listing
func (c *SpeechController) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid user ID", err))
		return
	}
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	speeches, err := c.serviceCollection.Speech.ListSpeechesByUser(r.Context(), userID, page)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	response.WritePage(c.responseBuilder, w, r, speeches)
}

// ListNearby handles the radius search
func (c *SpeechController) ListNearby(w http.ResponseWriter, r *http.Request) {
	req, err := parseNearby(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError(err.Error(), nil))
		return
	}

	speeches, err := c.serviceCollection.Speech.ListSpeechesNearby(r.Context(), req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	response.WritePage(c.responseBuilder, w, r, speeches)
}

// Pick records a volunteer for a speech
func (c *SpeechController) Pick(w http.ResponseWriter, r *http.Request) {
	var payload pickPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	record, err := c.serviceCollection.Status.Pick(r.Context(), &services.PickRequest{
		Kind:      models.KindSpeech,
		RequestID: payload.SpeechID,
		UserID:    payload.UserID,
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, record)
}

// parseNearby parses coordinates, optional radius and page from the query
func parseNearby(r *http.Request) (*services.NearbyRequest, error) {
	query := r.URL.Query()

	latitude, err := strconv.ParseFloat(query.Get("latitude"), 64)
	if err != nil {
		return nil, fmt.Errorf("latitude must be a number")
	}
	longitude, err := strconv.ParseFloat(query.Get("longitude"), 64)
	if err != nil {
		return nil, fmt.Errorf("longitude must be a number")
	}

	req := &services.NearbyRequest{
		Latitude:  latitude,
		Longitude: longitude,
		Page:      pagination.ParsePage(query.Get("page")),
	}

	if raw := query.Get("radius"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("radius must be a number")
		}
		req.RadiusKm = &radius
	}

	return req, nil
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
