package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// ErrorDetail is the machine-readable error payload used by the listing and
// wizard endpoints.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an ErrorDetail.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// malformedBodyMessage is the fixed response for unparseable JSON bodies.
const malformedBodyMessage = "request body is not valid JSON"

// writeJSON serializes v with the given status. Encoding failures are logged,
// not surfaced — the status line has already been written.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

// writeError writes a coded ErrorResponse (listing/wizard endpoints).
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeAppointmentError writes the flat {"error": ...} body the appointment
// endpoint contract documents, with optional provider detail.
func writeAppointmentError(w http.ResponseWriter, status int, message, details string) {
	body := map[string]string{"error": message}
	if details != "" {
		body["details"] = details
	}
	writeJSON(w, status, body)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.ListingService.Create: validation error: price is required"
// → "price is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, "validation error: "); i >= 0 {
		return msg[i+len("validation error: "):]
	}
	return msg
}
