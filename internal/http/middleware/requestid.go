package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// maxRequestIDLength bounds client-supplied request IDs before they reach
// the logs.
const maxRequestIDLength = 128

// isValidRequestID accepts only printable ASCII so a header cannot inject
// newlines or control characters into log lines.
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if c := id[i]; c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

// RequestID reuses a valid X-Request-Id header or generates a UUIDv4, stores
// it under chi's RequestIDKey and echoes it in the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(chimiddleware.RequestIDHeader)
			if !isValidRequestID(reqID) {
				reqID = uuid.NewString()
			}
			r = r.WithContext(context.WithValue(r.Context(), chimiddleware.RequestIDKey, reqID))
			w.Header().Set(chimiddleware.RequestIDHeader, reqID)
			next.ServeHTTP(w, r)
		})
	}
}
