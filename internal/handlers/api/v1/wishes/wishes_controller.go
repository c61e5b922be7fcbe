// file: internal/handlers/api/v1/wishes/wishes_controller.go
package wishes

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

type WishController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewWishController creates a new wish controller
func NewWishController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *WishController {
	return &WishController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// pickPayload matches the pick endpoint body for this family
type pickPayload struct {
	WishID int64 `json:"wish_id"`
	UserID int64 `json:"user_id"`
}

// CreateWish handles wish creation
func (c *WishController) CreateWish(w http.ResponseWriter, r *http.Request) {
	var req services.CreateWishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	wish, err := c.serviceCollection.Wish.CreateWish(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, wish)
}

// GetWish handles retrieving a specific wish with its lifecycle state
func (c *WishController) GetWish(w http.ResponseWriter, r *http.Request) {
	wishID, err := pathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid wish ID", err))
		return
	}

	wish, err := c.serviceCollection.Wish.GetWishByID(r.Context(), wishID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, wish)
}

// ListWishes handles the paginated wish feed
func (c *WishController) ListWishes(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	wishes, err := c.serviceCollection.Wish.ListWishes(r.Context(), page)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	response.WritePage(c.responseBuilder, w, r, wishes)
}

// ListByCategory handles category filtered listing
func (c *WishController) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	wishes, err := c.serviceCollection.Wish.ListWishesByCategory(r.Context(), category, page)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	response.WritePage(c.responseBuilder, w, r, wishes)
}

// ListByUser handles the per-creator listing
func (c *WishController) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid user ID", err))
		return
	}
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	wishes, err := c.serviceCollection.Wish.ListWishesByUser(r.Context(), userID, page)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	response.WritePage(c.responseBuilder, w, r, wishes)
}

// ListNearby handles the radius search
func (c *WishController) ListNearby(w http.ResponseWriter, r *http.Request) {
	req, err := parseNearby(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError(err.Error(), nil))
		return
	}

	wishes, err := c.serviceCollection.Wish.ListWishesNearby(r.Context(), req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	response.WritePage(c.responseBuilder, w, r, wishes)
}

// Pick records a volunteer for a wish
func (c *WishController) Pick(w http.ResponseWriter, r *http.Request) {
	var payload pickPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	record, err := c.serviceCollection.Status.Pick(r.Context(), &services.PickRequest{
		Kind:      models.KindWish,
		RequestID: payload.WishID,
		UserID:    payload.UserID,
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, record)
}

// ListCategories merges the category sets of both request families with the
// seed list.
func (c *WishController) ListCategories(w http.ResponseWriter, r *http.Request) {
	wishCategories, err := c.serviceCollection.Wish.Categories(r.Context())
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	speechCategories, err := c.serviceCollection.Speech.Categories(r.Context())
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, services.MergeCategories(wishCategories, speechCategories))
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
