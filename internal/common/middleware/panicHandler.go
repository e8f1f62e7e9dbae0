package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/chorify/chorify/internal/common/httpx"
	"github.com/rs/zerolog/log"
)

// PanicHandler turns a handler panic into a logged 500 response. A panic with
// http.ErrAbortHandler is passed on so the server aborts the connection.
func PanicHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := httpx.NewStatusRecorder(w)
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}
			log.Ctx(r.Context()).Error().
				Interface("panic", v).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Bytes("stack_trace", debug.Stack()).
				Msg("handler panicked")
			if !rec.Started() {
				httpx.ErrApplicationError().Send(rec)
			}
		}()
		next.ServeHTTP(rec, r)
	})
}
