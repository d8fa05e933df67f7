package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/logging"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// respondError translates a fault kind into its HTTP status and renders the
// taxonomy message, never the wrapped store error.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	respondJSON(ctx, w, statusForKind(fault.KindOf(err)), map[string]string{
		"error": fault.MessageOf(err),
	})
}

func statusForKind(kind fault.Kind) int {
	switch kind {
	case fault.InvalidArgument:
		return http.StatusBadRequest
	case fault.Unauthenticated, fault.Revoked, fault.Expired:
		return http.StatusUnauthorized
	case fault.Forbidden:
		return http.StatusForbidden
	case fault.NotFound:
		return http.StatusNotFound
	case fault.Conflict:
		return http.StatusConflict
	case fault.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
