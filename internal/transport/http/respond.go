package http

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("http: failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), errorResponse{
		Error: errors.UserMessage(err),
		Kind:  errors.KindOf(err).String(),
	})
}

func statusOf(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrSessionNotFound), stderrors.Is(err, errors.ErrNoPendingChannels):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrSearchInProgress):
		return http.StatusConflict
	}
	switch errors.KindOf(err) {
	case errors.KindValidation, errors.KindBadRequest:
		return http.StatusBadRequest
	case errors.KindQuotaExceeded:
		return http.StatusTooManyRequests
	case errors.KindInvalidCredential, errors.KindApiNotEnabled:
		return http.StatusForbidden
	case errors.KindNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
