package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// MessageResponse is the {status, message} envelope used for errors and
// acknowledgements.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TemplateResponse carries a generated contract template.
type TemplateResponse struct {
	Status   string `json:"status"`
	Template string `json:"template"`
}

// WriteJSON writes data as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, MessageResponse{Status: StatusError, Message: message})
}
