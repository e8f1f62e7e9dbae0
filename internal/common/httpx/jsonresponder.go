package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chorify/chorify/internal/common/logtrace"
	"github.com/rs/zerolog/log"
)

// SendJsonRsp sends msg as JSON. Pre-encoded JSON may be passed as []byte or
// json.RawMessage.
func SendJsonRsp(ctx context.Context, w http.ResponseWriter, statusCode int, msg any) {
	var msgJson []byte
	switch m := msg.(type) {
	case json.RawMessage:
		msgJson = m
	case []byte:
		msgJson = m
	default:
		var err error
		msgJson, err = json.Marshal(msg)
		if err != nil {
			log.Ctx(ctx).Err(err).Msg("unable to marshal json")
			ErrApplicationError("Id: " + logtrace.RequestIdFromContext(ctx)).Send(w)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(msgJson)
}
