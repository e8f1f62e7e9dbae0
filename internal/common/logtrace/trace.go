package logtrace

import (
	"context"

	"github.com/chorify/chorify/internal/common/uuid"
)

type requestIdContextKey struct{}

// RequestIDHeader carries the request identifier between client and server.
const RequestIDHeader = "X-Request-ID"

// NewRequestId returns a fresh request identifier.
func NewRequestId() string {
	return uuid.New().String()
}

// WithRequestId stores the request identifier in the context.
func WithRequestId(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIdContextKey{}, id)
}

// RequestIdFromContext extracts the request ID from the context.
// Returns an empty string if the context is nil or if no request ID is found.
func RequestIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	r, ok := ctx.Value(requestIdContextKey{}).(string)
	if !ok {
		return ""
	}
	return r
}
