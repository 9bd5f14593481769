// Package middleware holds the HTTP middleware stack shared by every route.
package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aanand-mishra/contacts/internal/logger"
)

// RequestLogger stores a child of base, tagged with the request ID, in the
// request context. Run it after RequestID.
func RequestLogger(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := base
			if reqID := chimiddleware.GetReqID(r.Context()); reqID != "" {
				log = base.With(zap.String("requestId", reqID))
			}
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), log)))
		})
	}
}

// AccessLogger writes one structured summary per request.
func AccessLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.FromContext(r.Context()).Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
