// Package middleware provides HTTP middleware for request logging and panic
// recovery, used by the in-process Chorify API.
package middleware

import (
	"net/http"
	"time"

	"github.com/chorify/chorify/internal/common/httpx"
	"github.com/chorify/chorify/internal/common/logtrace"
	"github.com/rs/zerolog/log"
)

// RequestLogger logs each request and puts a request scoped logger and request ID
// into the context. A request ID sent by the client is reused so both sides log
// the same identifier.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		requestID := r.Header.Get(logtrace.RequestIDHeader)
		if requestID == "" {
			requestID = logtrace.NewRequestId()
		}
		ctx = logtrace.WithRequestId(ctx, requestID)
		ctx = log.With().Str("request_id", requestID).Logger().WithContext(ctx)

		w.Header().Set(logtrace.RequestIDHeader, requestID)
		rec := httpx.NewStatusRecorder(w)

		log.Ctx(ctx).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_ip", r.RemoteAddr).
			Msg("incoming request")

		defer func() {
			log.Ctx(ctx).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.Status()).
				Int("bytes", rec.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		}()

		next.ServeHTTP(rec, r.WithContext(ctx))
	})
}
