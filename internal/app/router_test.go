package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roster-api/roster/internal/users"
)

type stubHealthChecker struct {
	err error
}

func (s stubHealthChecker) TestConnections(ctx context.Context) error {
	return s.err
}

type stubUsersService struct{}

func (stubUsersService) CreateUser(ctx context.Context, in users.CreateUserRequest) (users.User, error) {
	return users.User{}, users.ErrEmailExists
}

func (stubUsersService) GetUser(ctx context.Context, id uuid.UUID) (users.User, error) {
	return users.User{}, users.ErrNotFound
}

func (stubUsersService) ListUsers(ctx context.Context, req users.ListUsersRequest) ([]users.User, int, error) {
	return []users.User{}, 0, nil
}

func (stubUsersService) UpdateUser(ctx context.Context, id uuid.UUID, in users.UpdateUserRequest) (users.User, error) {
	return users.User{}, users.ErrNotFound
}

func (stubUsersService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return users.ErrNotFound
}

func newTestRouter(checker HealthChecker) http.Handler {
	logger := slog.New(slog.DiscardHandler)
	cfg := &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second}
	handler := users.NewHandler(logger, stubUsersService{}, false)
	return NewRouter(RouterParams{
		Logger:       logger,
		Config:       cfg,
		DB:           checker,
		UsersHandler: handler,
	})
}

func TestHealthConnected(t *testing.T) {
	router := newTestRouter(stubHealthChecker{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Connected", body["database"])
	assert.Equal(t, "test", body["environment"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHealthDisconnected(t *testing.T) {
	router := newTestRouter(stubHealthChecker{err: errors.New("replica down")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ERROR", body["status"])
	assert.Equal(t, "Disconnected", body["database"])
}

func TestRouteNotFound(t *testing.T) {
	router := newTestRouter(stubHealthChecker{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Route not found", body["message"])
}

func TestMethodNotAllowedIsRouteNotFound(t *testing.T) {
	router := newTestRouter(stubHealthChecker{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecovererRedactsInProduction(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("database password leaked")
	})

	prod := Recoverer(logger, &Config{AppEnv: "production"})(boom)
	rec := httptest.NewRecorder()
	prod.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["message"])

	// Only development exposes the panic value; any other env name redacts.
	staging := Recoverer(logger, &Config{AppEnv: "staging"})(boom)
	rec = httptest.NewRecorder()
	staging.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["message"])

	dev := Recoverer(logger, &Config{AppEnv: "development"})(boom)
	rec = httptest.NewRecorder()
	dev.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "database password leaked", body["message"])
}
