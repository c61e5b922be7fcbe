package response

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"wishlink/internal/contextutils"
	"wishlink/internal/models"
	"wishlink/internal/responseutil"
	"wishlink/internal/services"

	"go.uber.org/zap"
)

// ===============================
// RESPONSE CONFIGURATION
// ===============================

// Config holds configuration for the response system
type Config struct {
	PrettyJSON       bool   `json:"pretty_json"`
	IncludeRequestID bool   `json:"include_request_id"`
	IncludeTimestamp bool   `json:"include_timestamp"`
	IncludeVersion   bool   `json:"include_version"`
	APIVersion       string `json:"api_version"`

	// Error handling
	MaskInternalErrors bool `json:"mask_internal_errors"`

	// Performance
	CacheHeaders bool `json:"cache_headers"`
}

// DefaultConfig returns production-ready response configuration
func DefaultConfig() *Config {
	return &Config{
		PrettyJSON:         false,
		IncludeRequestID:   true,
		IncludeTimestamp:   true,
		IncludeVersion:     true,
		APIVersion:         "v1",
		MaskInternalErrors: true,
		CacheHeaders:       true,
	}
}

// ===============================
// RESPONSE TYPES
// ===============================

// APIResponse represents a standardized API response
type APIResponse struct {
	Success   bool          `json:"success"`
	Data      interface{}   `json:"data,omitempty"`
	Error     *ErrorDetail  `json:"error,omitempty"`
	Meta      *ResponseMeta `json:"meta,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Timestamp int64         `json:"timestamp,omitempty"`
	Version   string        `json:"version,omitempty"`
}

// ErrorDetail represents error information in API responses
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ResponseMeta contains metadata about the response
type ResponseMeta struct {
	Pagination *models.PaginationMeta `json:"pagination,omitempty"`
	Extra      map[string]interface{} `json:"extra,omitempty"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder helps construct standardized responses
type Builder struct {
	config *Config
	logger *zap.Logger
}

// NewBuilder creates a new response builder
func NewBuilder(config *Config, logger *zap.Logger) *Builder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Builder{
		config: config,
		logger: logger,
	}
}

// ===============================
// SUCCESS RESPONSES
// ===============================

// Success creates a successful API response
func (b *Builder) Success(ctx context.Context, data interface{}) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		RequestID: b.getRequestID(ctx),
		Timestamp: b.getTimestamp(),
		Version:   b.getVersion(),
	}
}

// SuccessWithMeta creates a successful API response with metadata
func (b *Builder) SuccessWithMeta(ctx context.Context, data interface{}, meta *ResponseMeta) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		Meta:      meta,
		RequestID: b.getRequestID(ctx),
		Timestamp: b.getTimestamp(),
		Version:   b.getVersion(),
	}
}

// NoContent creates a successful no-content response
func (b *Builder) NoContent(ctx context.Context) *APIResponse {
	return &APIResponse{
		Success:   true,
		RequestID: b.getRequestID(ctx),
		Timestamp: b.getTimestamp(),
		Version:   b.getVersion(),
	}
}

// ===============================
// ERROR RESPONSES
// ===============================

// Error creates an error response from a service error
func (b *Builder) Error(ctx context.Context, err error) *APIResponse {
	errorDetail := b.convertError(err)

	response := &APIResponse{
		Success:   false,
		Error:     errorDetail,
		RequestID: b.getRequestID(ctx),
		Timestamp: b.getTimestamp(),
		Version:   b.getVersion(),
	}

	b.logError(ctx, err, errorDetail)

	return response
}

// ValidationError creates a validation error response
func (b *Builder) ValidationError(ctx context.Context, message string) *APIResponse {
	return &APIResponse{
		Success: false,
		Error: &ErrorDetail{
			Type:    "VALIDATION_ERROR",
			Message: message,
		},
		RequestID: b.getRequestID(ctx),
		Timestamp: b.getTimestamp(),
		Version:   b.getVersion(),
	}
}

// ===============================
// HTTP RESPONSE WRITERS
// ===============================

// WriteJSON writes a JSON response with appropriate headers
func (b *Builder) WriteJSON(w http.ResponseWriter, r *http.Request, response *APIResponse, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if b.config.CacheHeaders {
		b.setCacheHeaders(w, statusCode)
	}

	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	if b.config.PrettyJSON {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(response); err != nil {
		b.logger.Error("Failed to encode JSON response",
			zap.Error(err),
			zap.String("request_id", b.getRequestID(r.Context())),
		)
	}
}

// WriteSuccess writes a successful JSON response
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	response := b.Success(r.Context(), data)
	b.WriteJSON(w, r, response, http.StatusOK)
}

// WriteCreated writes a successful creation response
func (b *Builder) WriteCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	response := b.Success(r.Context(), data)
	b.WriteJSON(w, r, response, http.StatusCreated)
}

// WriteNoContent writes a successful no-content response
func (b *Builder) WriteNoContent(w http.ResponseWriter, r *http.Request) {
	response := b.NoContent(r.Context())
	b.WriteJSON(w, r, response, http.StatusNoContent)
}

// WriteError writes an error response with appropriate status code
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	response := b.Error(r.Context(), err)
	statusCode := b.getStatusCodeFromError(err)
	b.WriteJSON(w, r, response, statusCode)
}

// WriteValidationError writes a 400 response with a validation message
func (b *Builder) WriteValidationError(w http.ResponseWriter, r *http.Request, message string) {
	response := b.ValidationError(r.Context(), message)
	b.WriteJSON(w, r, response, http.StatusBadRequest)
}

// WriteHealth writes a health check payload, degrading to 503 when unhealthy
func (b *Builder) WriteHealth(w http.ResponseWriter, r *http.Request, healthy bool, report interface{}) {
	statusCode := http.StatusOK
	if !healthy {
		statusCode = http.StatusServiceUnavailable
	}
	response := b.Success(r.Context(), report)
	response.Success = healthy
	b.WriteJSON(w, r, response, statusCode)
}

// WritePage writes one page of a listing with its pagination metadata.
func WritePage[T any](b *Builder, w http.ResponseWriter, r *http.Request, page *models.PaginatedResponse[T]) {
	meta := &ResponseMeta{Pagination: &page.Pagination}
	response := b.SuccessWithMeta(r.Context(), page.Data, meta)
	b.WriteJSON(w, r, response, http.StatusOK)
}

// ===============================
// UTILITY METHODS
// ===============================

// convertError converts various error types to ErrorDetail
func (b *Builder) convertError(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	serviceErr := services.GetServiceError(err)
	detail := &ErrorDetail{
		Type:    serviceErr.Type,
		Message: serviceErr.Message,
		Code:    serviceErr.Code,
		Details: serviceErr.Details,
	}

	if b.config.MaskInternalErrors && serviceErr.Type == "INTERNAL_ERROR" {
		detail.Message = "An internal error occurred"
		detail.Details = nil
	}

	return detail
}

// getStatusCodeFromError determines HTTP status code from error
func (b *Builder) getStatusCodeFromError(err error) int {
	if serviceErr := services.GetServiceError(err); serviceErr != nil {
		return serviceErr.GetStatusCode()
	}
	return http.StatusInternalServerError
}

// getRequestID extracts request ID from context
func (b *Builder) getRequestID(ctx context.Context) string {
	if !b.config.IncludeRequestID {
		return ""
	}
	return contextutils.GetRequestID(ctx)
}

// getTimestamp returns current timestamp if enabled
func (b *Builder) getTimestamp() int64 {
	if !b.config.IncludeTimestamp {
		return 0
	}
	return time.Now().Unix()
}

// getVersion returns API version if enabled
func (b *Builder) getVersion() string {
	if !b.config.IncludeVersion {
		return ""
	}
	return b.config.APIVersion
}

// setCacheHeaders sets appropriate cache headers
func (b *Builder) setCacheHeaders(w http.ResponseWriter, statusCode int) {
	if statusCode >= 200 && statusCode < 300 {
		w.Header().Set("Cache-Control", "public, max-age=60")
	} else {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
	}
}

// logError logs error information
func (b *Builder) logError(ctx context.Context, err error, errorDetail *ErrorDetail) {
	requestID := b.getRequestID(ctx)

	switch errorDetail.Type {
	case "VALIDATION_ERROR", "BUSINESS_ERROR":
		b.logger.Warn("Request error",
			zap.String("request_id", requestID),
			zap.String("error_type", errorDetail.Type),
			zap.String("error_message", errorDetail.Message),
			zap.String("error_code", errorDetail.Code),
		)
	case "INTERNAL_ERROR":
		b.logger.Error("Internal error",
			zap.String("request_id", requestID),
			zap.String("error_type", errorDetail.Type),
			zap.Error(err),
		)
	default:
		b.logger.Info("Request completed with error",
			zap.String("request_id", requestID),
			zap.String("error_type", errorDetail.Type),
			zap.String("error_message", errorDetail.Message),
		)
	}
}

// ===============================
// CONTEXT HELPERS
// ===============================

// GetBuilder extracts response builder from context
func GetBuilder(ctx context.Context) *Builder {
	if builder, ok := responseutil.GetBuilder(ctx).(*Builder); ok {
		return builder
	}
	return nil
}

// SetBuilder stores response builder in context
func SetBuilder(ctx context.Context, builder *Builder) context.Context {
	return responseutil.SetBuilder(ctx, builder)
}

// ===============================
// HELPER FUNCTIONS
// ===============================

// QuickSuccess is a helper for simple success responses
func QuickSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	if builder := GetBuilder(r.Context()); builder != nil {
		builder.WriteSuccess(w, r, data)
		return
	}

	defaultBuilder := NewBuilder(DefaultConfig(), zap.NewNop())
	defaultBuilder.WriteSuccess(w, r, data)
}

// QuickError is a helper for simple error responses
func QuickError(w http.ResponseWriter, r *http.Request, err error) {
	if builder := GetBuilder(r.Context()); builder != nil {
		builder.WriteError(w, r, err)
		return
	}

	defaultBuilder := NewBuilder(DefaultConfig(), zap.NewNop())
	defaultBuilder.WriteError(w, r, err)
}

// ===============================
// RESPONSE MIDDLEWARE
// ===============================

// Middleware creates response builder middleware
func Middleware(builder *Builder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := SetBuilder(r.Context(), builder)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
