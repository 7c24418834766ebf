package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/roster-api/roster/internal/platform/httpx"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// ServicePort defines the operations the handler orchestrates.
type ServicePort interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (User, error)
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	ListUsers(ctx context.Context, req ListUsersRequest) ([]User, int, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserRequest) (User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// Handler manages the user HTTP endpoints.
type Handler struct {
	logger       *slog.Logger
	service      ServicePort
	validate     *validator.Validate
	exposeErrors bool
}

// NewHandler builds Handler instance. exposeErrors controls whether 500
// responses carry the underlying error text; keep it off in production.
func NewHandler(logger *slog.Logger, service ServicePort, exposeErrors bool) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return field.Name
		}
		return name
	})
	return &Handler{logger: logger, service: service, validate: v, exposeErrors: exposeErrors}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createUser)
	r.Get("/", h.listUsers)
	r.Get("/{id}", h.getUser)
	r.Put("/{id}", h.updateUser)
	r.Delete("/{id}", h.deleteUser)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if details := h.validationDetails(req); len(details) > 0 {
		httpx.ValidationFailed(w, details)
		return
	}

	user, err := h.service.CreateUser(r.Context(), req)
	switch {
	case errors.Is(err, ErrEmailExists):
		httpx.Error(w, http.StatusConflict, "Email already exists")
	case err != nil:
		h.serverError(w, r, "create user", err)
	default:
		httpx.SuccessMessage(w, http.StatusCreated, "User created successfully", user)
	}
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "User not found")
	case err != nil:
		h.serverError(w, r, "get user", err)
	default:
		httpx.Success(w, http.StatusOK, user)
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	req, errMsg := parseListQuery(r)
	if errMsg != "" {
		httpx.Error(w, http.StatusBadRequest, errMsg)
		return
	}

	page, total, err := h.service.ListUsers(r.Context(), req)
	if err != nil {
		h.serverError(w, r, "list users", err)
		return
	}

	httpx.SuccessList(w, page, httpx.Pagination{
		Total:   total,
		Limit:   req.Limit,
		Offset:  req.Offset,
		HasMore: req.Offset+req.Limit < total,
	})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Empty() {
		httpx.ValidationFailed(w, []string{"at least one field is required"})
		return
	}

	if details := h.validationDetails(req); len(details) > 0 {
		httpx.ValidationFailed(w, details)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, req)
	switch {
	case errors.Is(err, ErrEmailExists):
		httpx.Error(w, http.StatusConflict, "Email already exists")
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrNoFields):
		httpx.ValidationFailed(w, []string{"at least one field is required"})
	case err != nil:
		h.serverError(w, r, "update user", err)
	default:
		httpx.SuccessMessage(w, http.StatusOK, "User updated successfully", user)
	}
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	err := h.service.DeleteUser(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "User not found")
	case err != nil:
		h.serverError(w, r, "delete user", err)
	default:
		httpx.SuccessMessage(w, http.StatusOK, "User deleted successfully", nil)
	}
}

// userID extracts and parses the id path parameter. A missing id is a bad
// request; a malformed one cannot name any row and reads as absence.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		httpx.Error(w, http.StatusBadRequest, "User ID is required")
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "User not found")
		return uuid.UUID{}, false
	}
	return id, true
}

// parseListQuery validates list query parameters. Out-of-range values are
// rejected, never clamped.
func parseListQuery(r *http.Request) (ListUsersRequest, string) {
	req := ListUsersRequest{Limit: defaultLimit}
	q := r.URL.Query()

	if raw := q.Get("isActive"); raw != "" {
		switch raw {
		case "true":
			active := true
			req.IsActive = &active
		case "false":
			active := false
			req.IsActive = &active
		default:
			return ListUsersRequest{}, "isActive must be true or false"
		}
	}

	req.Email = q.Get("email")

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			return ListUsersRequest{}, "Limit must be between 1 and 100"
		}
		req.Limit = n
	}

	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return ListUsersRequest{}, "Offset must be non-negative"
		}
		req.Offset = n
	}

	return req, ""
}

func (h *Handler) validationDetails(payload any) []string {
	err := h.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var details []string
	for _, fieldErr := range err.(validator.ValidationErrors) {
		details = append(details, validationMessage(fieldErr))
	}
	return details
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldErr.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fieldErr.Field())
	case "min", "max":
		return fmt.Sprintf("%s must be between 1 and 100 characters", fieldErr.Field())
	default:
		return fmt.Sprintf("%s is invalid", fieldErr.Field())
	}
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op+" failed",
		slog.Any("error", err),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	message := "Internal server error"
	if h.exposeErrors {
		message = err.Error()
	}
	httpx.Error(w, http.StatusInternalServerError, message)
}
