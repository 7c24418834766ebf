// Package httpx provides JSON response envelope utilities.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope shared by every API payload. Success responses
// carry success:true, error responses success:false.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Details    []string    `json:"details,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the window returned by a list endpoint.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// JSON sends an arbitrary payload with the given status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Success sends a success envelope carrying data.
func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, Response{Success: true, Data: data})
}

// SuccessMessage sends a success envelope with a message and optional data.
func SuccessMessage(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Response{Success: true, Message: message, Data: data})
}

// SuccessList sends a success envelope carrying a page of data plus
// pagination metadata.
func SuccessList(w http.ResponseWriter, data any, p Pagination) {
	JSON(w, http.StatusOK, Response{Success: true, Data: data, Pagination: &p})
}

// Error sends an error envelope with a single message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Response{Success: false, Message: message})
}

// ValidationFailed sends a 400 envelope with per-field messages.
func ValidationFailed(w http.ResponseWriter, details []string) {
	JSON(w, http.StatusBadRequest, Response{Success: false, Message: "Validation error", Details: details})
}

// DecodeJSON decodes the request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
