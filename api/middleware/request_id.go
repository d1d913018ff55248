package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mvolkova/shopbot-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags the request context and the response with a correlation id,
// keeping an id supplied by the caller when one is present.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
