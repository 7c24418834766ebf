package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/roster-api/roster/internal/platform/httpx"
	"github.com/roster-api/roster/internal/users"
)

// HealthChecker reports liveness of the backing database pair.
type HealthChecker interface {
	TestConnections(ctx context.Context) error
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger       *slog.Logger
	Config       *Config
	DB           HealthChecker
	UsersHandler *users.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/health", healthHandler(params))

	r.Route("/api/users", params.UsersHandler.MountRoutes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusNotFound, "Route not found")
	})

	return r
}

type healthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Database    string    `json:"database"`
	Environment string    `json:"environment"`
}

func healthHandler(params RouterParams) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := params.DB.TestConnections(r.Context()); err != nil {
			params.Logger.Error("health check failed", slog.Any("error", err))
			httpx.JSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:      "ERROR",
				Timestamp:   time.Now().UTC(),
				Database:    "Disconnected",
				Environment: params.Config.AppEnv,
			})
			return
		}
		httpx.JSON(w, http.StatusOK, healthResponse{
			Status:      "OK",
			Timestamp:   time.Now().UTC(),
			Database:    "Connected",
			Environment: params.Config.AppEnv,
		})
	}
}
