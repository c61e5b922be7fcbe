// file: internal/router/router.go
package router

import (
	"net/http"

	"wishlink/internal/handlers/api/v1/auth"
	"wishlink/internal/handlers/api/v1/fulfillments"
	"wishlink/internal/handlers/api/v1/speeches"
	"wishlink/internal/handlers/api/v1/status"
	"wishlink/internal/handlers/api/v1/users"
	"wishlink/internal/handlers/api/v1/wishes"
	"wishlink/internal/middleware"
	"wishlink/internal/repositories"
	"wishlink/internal/response"
	"wishlink/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Config carries router level settings
type Config struct {
	CORSOrigin string
}

// SetupRouter configures all HTTP routes and returns the main handler
func SetupRouter(
	serviceCollection *services.ServiceCollection,
	repos *repositories.Collection,
	authMiddleware *middleware.AuthMiddleware,
	responseBuilder *response.Builder,
	cfg *Config,
	logger *zap.Logger,
) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}

	r := mux.NewRouter()

	userController := users.NewUserController(serviceCollection, logger, responseBuilder)
	authController := auth.NewAuthController(serviceCollection, logger, responseBuilder)
	wishController := wishes.NewWishController(serviceCollection, logger, responseBuilder)
	speechController := speeches.NewSpeechController(serviceCollection, logger, responseBuilder)
	fulfillmentController := fulfillments.NewFulfillmentController(serviceCollection, logger, responseBuilder)
	statusController := status.NewStatusController(serviceCollection, logger, responseBuilder)

	// Health endpoints stay outside the API prefix
	r.HandleFunc("/health", healthHandler(repos, responseBuilder)).Methods(http.MethodGet)
	r.HandleFunc("/readyz", readyHandler(repos, responseBuilder)).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Users
	api.HandleFunc("/users", userController.CreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users/signup", authController.SignUp).Methods(http.MethodPost)
	api.HandleFunc("/users/signin", authController.SignIn).Methods(http.MethodPost)
	api.HandleFunc("/users/exists", userController.UserExists).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}", userController.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}", userController.UpdateUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}/summary", userController.GetUserSummary).Methods(http.MethodGet)

	// Wishes
	api.HandleFunc("/wishes", wishController.CreateWish).Methods(http.MethodPost)
	api.HandleFunc("/wishes", wishController.ListWishes).Methods(http.MethodGet)
	api.HandleFunc("/wishes/pick", wishController.Pick).Methods(http.MethodPost)
	api.HandleFunc("/wishes/nearby", wishController.ListNearby).Methods(http.MethodGet)
	api.HandleFunc("/wishes/category/{category}", wishController.ListByCategory).Methods(http.MethodGet)
	api.HandleFunc("/wishes/user/{id:[0-9]+}", wishController.ListByUser).Methods(http.MethodGet)
	api.HandleFunc("/wishes/{id:[0-9]+}", wishController.GetWish).Methods(http.MethodGet)

	// Speeches
	api.HandleFunc("/speeches", speechController.CreateSpeech).Methods(http.MethodPost)
	api.HandleFunc("/speeches", speechController.ListSpeeches).Methods(http.MethodGet)
	api.HandleFunc("/speeches/pick", speechController.Pick).Methods(http.MethodPost)
	api.HandleFunc("/speeches/nearby", speechController.ListNearby).Methods(http.MethodGet)
	api.HandleFunc("/speeches/category/{category}", speechController.ListByCategory).Methods(http.MethodGet)
	api.HandleFunc("/speeches/user/{id:[0-9]+}", speechController.ListByUser).Methods(http.MethodGet)
	api.HandleFunc("/speeches/{id:[0-9]+}", speechController.GetSpeech).Methods(http.MethodGet)

	// Categories across both families
	api.HandleFunc("/categories", wishController.ListCategories).Methods(http.MethodGet)

	// Fulfillments and events
	api.HandleFunc("/fulfillments", fulfillmentController.Submit).Methods(http.MethodPost)
	api.HandleFunc("/fulfillments/search", fulfillmentController.Search).Methods(http.MethodPost)
	api.HandleFunc("/fulfillments/{id:[0-9]+}", fulfillmentController.GetFulfillment).Methods(http.MethodGet)
	api.HandleFunc("/events", fulfillmentController.ListEvents).Methods(http.MethodGet)
	api.HandleFunc("/events/{kind}/{id:[0-9]+}", fulfillmentController.GetLatestEvent).Methods(http.MethodGet)

	// Lifecycle
	api.HandleFunc("/status/complete", statusController.Complete).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		responseBuilder.WriteError(w, req, services.NewNotFoundError("route not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		responseBuilder.WriteJSON(w, req, responseBuilder.ValidationError(req.Context(), "method not allowed"), http.StatusMethodNotAllowed)
	})

	return middleware.Chain(r,
		middleware.RequestID(logger),
		middleware.Recovery(logger),
		middleware.RequestLogging(),
		middleware.CORS(cfg.CORSOrigin),
		middleware.SecureHeaders,
		response.Middleware(responseBuilder),
		authMiddleware.Authenticate,
	)
}

// healthHandler reports process liveness
func healthHandler(repos *repositories.Collection, builder *response.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		builder.WriteSuccess(w, r, map[string]string{"status": "ok"})
	}
}

// readyHandler reports dependency readiness, degrading to 503 when the
// database is unreachable.
func readyHandler(repos *repositories.Collection, builder *response.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := repos.HealthCheck(r.Context())

		healthy := false
		if db, ok := report["database"].(map[string]interface{}); ok {
			healthy = db["status"] == "healthy"
		}

		builder.WriteHealth(w, r, healthy, report)
	}
}
