// internal/apperr/http.go
package apperr

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HTTPStatus maps an error code to its client-visible status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeAccessDenied:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a structured JSON error response.
// Uncoded errors are reported as internal without leaking detail.
func WriteError(w http.ResponseWriter, err error) {
	code := CodeOf(err)
	status := HTTPStatus(code)

	body := ErrorResponse{Error: string(code), Message: err.Error()}
	if code == "" {
		body = ErrorResponse{Error: "internal", Message: "internal error"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}
