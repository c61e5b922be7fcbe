package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wishlink/internal/contextutils"
	"wishlink/internal/models"
	"wishlink/internal/pagination"
	"wishlink/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteSuccessEnvelope(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishes/1", nil)
	req = req.WithContext(contextutils.WithRequestID(req.Context(), "req-123"))
	rec := httptest.NewRecorder()

	builder.WriteSuccess(rec, req, map[string]string{"title": "school supplies"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "req-123", body["request_id"])
	assert.NotNil(t, body["data"])
	assert.Nil(t, body["error"])
}

func TestWriteErrorMapsServiceErrors(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"not found", services.NewNotFoundError("wish not found"), http.StatusNotFound, "NOT_FOUND"},
		{"validation", services.NewValidationError("title is required", nil), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"business", services.NewBusinessError("already picked", services.CodeAlreadyPicked), http.StatusBadRequest, "BUSINESS_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/wishes/1", nil)
			rec := httptest.NewRecorder()

			builder.WriteError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])

			errObj, ok := body["error"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.wantType, errObj["type"])
		})
	}
}

func TestWriteErrorMasksInternalDetails(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishes", nil)
	rec := httptest.NewRecorder()

	builder.WriteError(rec, req, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "INTERNAL_ERROR", errObj["type"])
	assert.Equal(t, "An internal error occurred", errObj["message"])
}

func TestWritePageIncludesPaginationMeta(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	items := make([]*models.Wish, 25)
	for i := range items {
		items[i] = &models.Wish{ID: int64(i + 1)}
	}
	page := pagination.Paginate(items, pagination.DefaultPageSize, 2)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishes?page=2", nil)
	rec := httptest.NewRecorder()

	WritePage(builder, rec, req, page)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 10)

	meta := body["meta"].(map[string]interface{})
	pg := meta["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pg["current_page"])
	assert.Equal(t, float64(3), pg["total_pages"])
	assert.Equal(t, float64(25), pg["total_items"])
}
