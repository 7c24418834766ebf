// Package users implements the user resource: validation, business rules and
// PostgreSQL persistence split across a primary/replica pool pair.
package users

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates no user matched the given id.
	ErrNotFound = errors.New("user not found")
	// ErrEmailExists indicates the email uniqueness constraint would be violated.
	ErrEmailExists = errors.New("email already exists")
	// ErrNoFields indicates an update carried zero recognized fields.
	ErrNoFields = errors.New("no fields to update")
)

// User is the persisted account record. Field names follow the JSON wire
// contract regardless of column naming.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUserRequest is the payload for creating a user. IsActive defaults to
// true when unspecified.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	IsActive  *bool  `json:"isActive"`
}

// UpdateUserRequest is the payload for a partial update. Nil fields are left
// unchanged.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	IsActive  *bool   `json:"isActive"`
}

// Empty reports whether the update carries no recognized fields.
func (r UpdateUserRequest) Empty() bool {
	return r.Email == nil && r.FirstName == nil && r.LastName == nil && r.IsActive == nil
}

// ListUsersRequest carries list filters and the pagination window.
type ListUsersRequest struct {
	IsActive *bool
	Email    string
	Limit    int
	Offset   int
}
