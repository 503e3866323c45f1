package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Internal errors are not echoed.
func writeError(log *slog.Logger, w http.ResponseWriter, err error) {
	kind := apperror.Kind(err)

	status := http.StatusBadRequest
	message := err.Error()

	switch kind {
	case apperror.KindNotFound:
		status = http.StatusNotFound
	case apperror.KindInvalidState, apperror.KindAlreadyQueued:
		status = http.StatusConflict
	case apperror.KindNotParticipant:
		status = http.StatusForbidden
	case apperror.KindInternal:
		log.Error("request failed", "error", err)

		status = http.StatusInternalServerError
		message = http.StatusText(status)
	}

	writeJSON(log, w, status, errorBody{Kind: kind, Message: message})
}
