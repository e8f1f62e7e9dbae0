// Package httpx provides the JSON request and response helpers used by the
// in-process Chorify API. Error bodies follow the REST framework conventions the
// client understands: {"detail": "..."} and {"<field>": ["..."]}.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
)

// GetRequestData parses the JSON request body into data. Only POST, PUT and
// PATCH carry bodies.
func GetRequestData(r *http.Request, data any) error {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return ErrReqMethodNotSupported()
	}
	if r.Body == nil || r.Body == http.NoBody {
		log.Ctx(r.Context()).Error().Msg("empty request body")
		return ErrUnableToParseReqData()
	}
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		return ErrUnableToParseReqData()
	}
	return nil
}

// Response is a handler result. A nil Response with StatusCode 204 writes no body.
type Response struct {
	StatusCode int
	Response   any
}

// RequestHandler handles a request and returns either a response or an error.
type RequestHandler func(r *http.Request) (*Response, error)

// WrapHttpRsp adapts a RequestHandler to http.HandlerFunc, rendering errors in
// the REST framework shapes.
func WrapHttpRsp(handler RequestHandler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			var httperror *Error
			var fieldErrs FieldErrors
			switch {
			case errors.As(err, &httperror):
				httperror.Send(w)
			case errors.As(err, &fieldErrs):
				fieldErrs.Send(w)
			default:
				log.Ctx(r.Context()).Error().Err(err).Msg("unhandled error")
				ErrApplicationError().Send(w)
			}
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		if rsp.StatusCode == http.StatusNoContent {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		SendJsonRsp(r.Context(), w, rsp.StatusCode, rsp.Response)
	})
}
