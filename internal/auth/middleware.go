package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/datawhisperer/datawhisperer/internal/api/envelope"
	"github.com/datawhisperer/datawhisperer/internal/observability"
)

type contextKey string

const identityKey contextKey = "auth_identity"

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// Middleware admits requests carrying a key known to validator, through
// X-API-Key or an Authorization Bearer token, and records the caller's
// Identity in the request context.
func Middleware(logger *slog.Logger, validator APIKeyValidator) func(http.Handler) http.Handler {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			apiKey := extractAPIKey(r)
			if apiKey == "" {
				reject(ctx, w, logger, r, "missing", "missing API key")
				return
			}

			identity, ok := validator.Validate(ctx, apiKey)
			if !ok {
				reject(ctx, w, logger, r, "invalid", "Invalid or missing API Key")
				return
			}
			logger.DebugContext(ctx, "request authenticated",
				slog.String("trace_id", observability.TraceIDFromContext(ctx)),
				slog.String("client", identity.Client),
			)

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
		})
	}
}

func reject(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, r *http.Request, reason, message string) {
	observability.ObserveAuthFailure(reason)
	logger.WarnContext(ctx, "authentication failed",
		slog.String("trace_id", observability.TraceIDFromContext(ctx)),
		slog.String("reason", reason),
		slog.String("path", r.URL.Path),
	)
	envelope.WriteError(ctx, w, http.StatusUnauthorized, "UNAUTHORIZED", message, false, nil)
}

func extractAPIKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	authorization := strings.TrimSpace(r.Header.Get("Authorization"))
	if authorization == "" {
		return ""
	}
	const bearerPrefix = "Bearer "
	if strings.HasPrefix(authorization, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authorization, bearerPrefix))
	}
	return ""
}
