// Package response writes the API's JSON responses. Every handler goes
// through these helpers so success and error payloads stay uniform.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the error payload shape shared by all endpoints. Details
// is optional and carries extra context such as field-level validation errors.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RespondJSON writes data as JSON with the given status code. A nil data
// writes the status code alone, which is how 204 No Content is sent.
// Encoding failures are logged; the status line has already gone out.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// RespondError writes an ErrorResponse with the given status code. Message
// is the user-facing description; details may be an error string, extra
// context, or nil.
func RespondError(w http.ResponseWriter, status int, message string, details interface{}) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
