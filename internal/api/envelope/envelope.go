// Package envelope writes the JSON bodies shared by every HTTP error path.
package envelope

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/datawhisperer/datawhisperer/internal/observability"
)

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError emits the error envelope. detail mirrors message for clients
// that only read detail. context is always an object.
func WriteError(ctx context.Context, w http.ResponseWriter, status int, code, message string, retryable bool, extra map[string]any) {
	if extra == nil {
		extra = map[string]any{}
	}
	WriteJSON(w, status, map[string]any{
		"error_code": code,
		"message":    message,
		"detail":     message,
		"retryable":  retryable,
		"context":    extra,
		"trace_id":   observability.TraceIDFromContext(ctx),
	})
}
