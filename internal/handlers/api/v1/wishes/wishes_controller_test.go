// file: internal/handlers/api/v1/wishes/wishes_controller_test.go
package wishes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wishlink/internal/models"
	"wishlink/internal/pagination"
	"wishlink/internal/response"
	"wishlink/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubWishService struct {
	wishes map[int64]*models.Wish
}

func (s *stubWishService) CreateWish(ctx context.Context, req *services.CreateWishRequest) (*models.Wish, error) {
	if req.Title == "" {
		return nil, services.NewValidationError("wish_title is required", nil)
	}
	wish := &models.Wish{ID: int64(len(s.wishes) + 1), Title: req.Title, Description: req.Description, CreatedBy: req.CreatedBy}
	s.wishes[wish.ID] = wish
	return wish, nil
}

func (s *stubWishService) GetWishByID(ctx context.Context, id int64) (*models.Wish, error) {
	wish, ok := s.wishes[id]
	if !ok {
		return nil, services.NewNotFoundError("wish not found")
	}
	return wish, nil
}

func (s *stubWishService) ListWishes(ctx context.Context, page int) (*models.PaginatedResponse[*models.Wish], error) {
	all := make([]*models.Wish, 0, len(s.wishes))
	for _, wish := range s.wishes {
		all = append(all, wish)
	}
	return pagination.Paginate(all, pagination.DefaultPageSize, page), nil
}

func (s *stubWishService) ListWishesByCategory(ctx context.Context, category string, page int) (*models.PaginatedResponse[*models.Wish], error) {
	return s.ListWishes(ctx, page)
}

func (s *stubWishService) ListWishesByUser(ctx context.Context, userID int64, page int) (*models.PaginatedResponse[*models.Wish], error) {
	return s.ListWishes(ctx, page)
}

func (s *stubWishService) ListWishesNearby(ctx context.Context, req *services.NearbyRequest) (*models.PaginatedResponse[*models.Wish], error) {
	return s.ListWishes(ctx, req.Page)
}

func (s *stubWishService) Categories(ctx context.Context) ([]string, error) {
	return []string{"Education"}, nil
}

type stubStatusService struct {
	picked []*services.PickRequest
}

func (s *stubStatusService) EnsureStatus(ctx context.Context, kind models.RequestKind, requestID int64) (*models.StatusRecord, error) {
	return &models.StatusRecord{Status: models.StatusCreated}, nil
}

func (s *stubStatusService) GetStatus(ctx context.Context, kind models.RequestKind, requestID int64) (*models.StatusRecord, error) {
	return &models.StatusRecord{Status: models.StatusCreated}, nil
}

func (s *stubStatusService) Pick(ctx context.Context, req *services.PickRequest) (*models.StatusRecord, error) {
	if req.UserID == 0 || req.RequestID == 0 {
		return nil, services.NewValidationError("request_id and user_id are required", nil)
	}
	s.picked = append(s.picked, req)
	return &models.StatusRecord{Status: models.StatusInProgress}, nil
}

func (s *stubStatusService) Complete(ctx context.Context, req *services.CompleteRequest) (*models.StatusRecord, error) {
	return &models.StatusRecord{Status: models.StatusCompleted}, nil
}

func newTestController(t *testing.T) (*WishController, *stubWishService, *stubStatusService) {
	t.Helper()
	wishes := &stubWishService{wishes: make(map[int64]*models.Wish)}
	status := &stubStatusService{}
	sc := &services.ServiceCollection{Wish: wishes, Status: status}
	controller := NewWishController(sc, zap.NewNop(), response.NewBuilder(response.DefaultConfig(), zap.NewNop()))
	return controller, wishes, status
}

func newTestRouter(controller *WishController) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/wishes", controller.CreateWish).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/wishes", controller.ListWishes).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/wishes/pick", controller.Pick).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/wishes/{id:[0-9]+}", controller.GetWish).Methods(http.MethodGet)
	return r
}

func TestCreateWishReturnsCreated(t *testing.T) {
	controller, _, _ := newTestController(t)
	router := newTestRouter(controller)

	body, err := json.Marshal(map[string]interface{}{
		"wish_title":       "school supplies",
		"wish_description": "notebooks for thirty pupils",
		"created_by":       1,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/wishes", bytes.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope["success"])
}

func TestCreateWishRejectsMalformedBody(t *testing.T) {
	controller, _, _ := newTestController(t)
	router := newTestRouter(controller)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/wishes", bytes.NewReader([]byte("{not json"))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWishNotFound(t *testing.T) {
	controller, _, _ := newTestController(t)
	router := newTestRouter(controller)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/wishes/99", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope["success"])
}

func TestListWishesReturnsPaginationMeta(t *testing.T) {
	controller, wishes, _ := newTestController(t)
	router := newTestRouter(controller)

	for i := int64(1); i <= 3; i++ {
		wishes.wishes[i] = &models.Wish{ID: i, Title: "wish"}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/wishes?page=1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	meta, ok := envelope["meta"].(map[string]interface{})
	require.True(t, ok)
	pg := meta["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pg["total_items"])
}

func TestPickRoutesToStatusService(t *testing.T) {
	controller, _, status := newTestController(t)
	router := newTestRouter(controller)

	body := []byte(`{"wish_id": 4, "user_id": 9}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/wishes/pick", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, status.picked, 1)
	assert.Equal(t, models.KindWish, status.picked[0].Kind)
	assert.Equal(t, int64(4), status.picked[0].RequestID)
	assert.Equal(t, int64(9), status.picked[0].UserID)
}
