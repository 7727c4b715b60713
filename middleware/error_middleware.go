package middleware

import (
	"encoding/json"
	"net/http"

	"food-reels-server/utils/errors"

	"go.uber.org/zap"
)

// ErrorMiddleware turns a panic in any handler into a 500 JSON response
func ErrorMiddleware(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("Panic recovered",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"))
					WriteError(w, errors.ErrInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WriteError writes an APIError as a JSON response. Anything that is not an
// APIError becomes a generic 500 so internals never reach the client.
func WriteError(w http.ResponseWriter, err error) {
	apiErr, ok := errors.As(err)
	if !ok {
		apiErr = errors.Internal(errors.ErrInternal.Message, err)
	}
	// Log server errors
	if apiErr.Status >= 500 {
		zap.L().Error("Server error",
			zap.String("code", apiErr.Code),
			zap.String("message", apiErr.Message),
			zap.Error(err))
	}
	WriteJSON(w, apiErr.Status, apiErr)
}

// WriteJSON writes v with the given status
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("Failed to encode response", zap.Error(err))
	}
}
