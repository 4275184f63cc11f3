package handler

// RESPONSE HELPERS:
// Every response from this API — success or failure — is a JSON object with
// a boolean "success" flag and a "message". The frontend switches on the flag
// and shows the message, so the shape must be identical across endpoints and
// failure modes. These helpers are the single place that shape is produced.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/parking-backend/internal/apperror"
)

// errorResponse is the body sent for every failed request.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status must be set BEFORE the body: once Encode writes the
// first byte, the headers are on the wire and further changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — we can only log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends the standard
// failure body.
//
// ERROR MAPPING:
// The service layer returns apperror sentinels; this is where they become
// status codes. Validation and conflict are both 400 — the frontend treats
// them the same way (show the message next to the form) and the original API
// contract pins them there. Unauthorized is 401. Anything unrecognised is a
// 500 with a fixed generic message: raw errors can carry SQL text, file
// paths, or driver detail that must never reach a client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		default:
			// A typed error outside the client-fault taxonomy (e.g. NotFound
			// escaping a lookup) is still an internal failure from the
			// client's point of view.
			writeJSON(w, status, errorResponse{Success: false, Message: "Internal server error"})
			return
		}

		writeJSON(w, status, errorResponse{Success: false, Message: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Success: false,
		Message: "Internal server error",
	})
}
