package rest

import (
	"encoding/json"
	"net/http"

	"github.com/davidakinola/tierpay/internal/application"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteError maps application errors to HTTP responses
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorWithDetails(w, err, nil)
}

// WriteErrorWithDetails attaches extra key-value context to the error envelope.
// Capture uses it to carry the terminal order state alongside the error code.
func WriteErrorWithDetails(w http.ResponseWriter, err error, details map[string]string) {
	statusCode := application.ToHTTPStatus(err)
	errorCode := application.ToErrorCode(err)

	response := ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    errorCode,
			Message: err.Error(),
			Details: details,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
