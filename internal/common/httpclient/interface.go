package httpclient

import (
	"context"
)

// HTTPClientInterface is the request surface used by the resource controllers and
// the auth flow.
type HTTPClientInterface interface {
	// DoRequest makes an HTTP request with the given options.
	DoRequest(ctx context.Context, opts RequestOptions) (*Response, error)

	// List issues an authenticated GET for a collection endpoint.
	List(ctx context.Context, path string) (*Response, error)

	// Create issues an authenticated POST.
	Create(ctx context.Context, path string, body any) (*Response, error)

	// Replace issues an authenticated PUT with the full record.
	Replace(ctx context.Context, path string, body any) (*Response, error)

	// Patch issues an authenticated PATCH with a subset of fields.
	Patch(ctx context.Context, path string, body any) (*Response, error)

	// Delete issues an authenticated DELETE.
	Delete(ctx context.Context, path string) error
}

var _ HTTPClientInterface = &HTTPClient{}
