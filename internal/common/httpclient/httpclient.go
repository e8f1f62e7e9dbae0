// Package httpclient provides the HTTP client used to talk to the Chorify REST API.
// It joins request paths onto a configured base address, attaches the session token
// as an "Authorization: Token <value>" header when a request needs it, and classifies
// every outcome as success, HTTP status failure or transport failure.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chorify/chorify/internal/common/apperrors"
	"github.com/chorify/chorify/internal/common/logtrace"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// TokenSource provides the current auth token. An empty string means none.
type TokenSource interface {
	Token() string
}

// HTTPClient represents a client for making HTTP requests to the Chorify API.
type HTTPClient struct {
	baseURL    *url.URL
	tokens     TokenSource
	httpClient *http.Client
	logger     zerolog.Logger
}

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	Timeout   time.Duration     // Per request timeout, DefaultTimeout when zero
	Transport http.RoundTripper // Optional transport override
	Logger    *zerolog.Logger   // Optional logger, the "httpclient" component logger when nil
}

// NewClient creates a client for the API rooted at baseURL. tokens may be nil
// for clients that never send authenticated requests.
func NewClient(baseURL string, tokens TokenSource, opts ...ClientOptions) (*HTTPClient, error) {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, apperrors.ErrConfig.MsgErr("invalid server URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, apperrors.ErrConfig.New("server URL must start with http:// or https://")
	}
	if u.Host == "" {
		return nil, apperrors.ErrConfig.New("server URL must include a host")
	}

	timeout := clientOpts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := logtrace.Component("httpclient")
	if clientOpts.Logger != nil {
		logger = *clientOpts.Logger
	}

	return &HTTPClient{
		baseURL: u,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: clientOpts.Transport,
		},
		logger: logger,
	}, nil
}

// BaseURL returns the configured API base address.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL.String()
}

// RequestOptions contains options for making HTTP requests.
type RequestOptions struct {
	Method       string            // HTTP method
	Path         string            // Escaped path relative to the base address, trailing slash kept
	QueryParams  map[string]string // Optional query parameters
	Body         any               // Optional body; []byte and json.RawMessage are sent as is
	RequiresAuth bool              // Attach the session token
}

// Response is a successful (2xx) response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Empty reports whether the response carried no content, e.g. 204 No Content.
func (r *Response) Empty() bool {
	return r == nil || len(bytes.TrimSpace(r.Body)) == 0
}

// Decode parses the body into v. An empty body or an unexpected shape is
// reported as a malformed response.
func (r *Response) Decode(v any) error {
	if r.Empty() {
		return apperrors.ErrMalformedResponse.New("empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return apperrors.ErrMalformedResponse.Err(err)
	}
	return nil
}

// Get extracts a value from a JSON body with a gjson path.
func (r *Response) Get(path string) gjson.Result {
	if r.Empty() {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.Body, path)
}

// URL builds the absolute URL for a path relative to the base address. p is in
// escaped form, so "a%2Fb" stays one path segment and is not escaped again.
func (c *HTTPClient) URL(p string, queryParams map[string]string) string {
	rel := strings.TrimLeft(p, "/")
	decoded, err := url.PathUnescape(rel)
	if err != nil {
		decoded = rel
		rel = (&url.URL{Path: rel}).EscapedPath()
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + decoded
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + rel

	q := u.Query()
	for k, v := range queryParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// DoRequest sends the request described by opts. A 2xx status yields a Response,
// any other status an *HTTPError and a failure to obtain a response a
// *TransportError.
func (c *HTTPClient) DoRequest(ctx context.Context, opts RequestOptions) (*Response, error) {
	var bodyReader io.Reader
	if opts.Body != nil {
		data, err := encodeBody(opts.Body)
		if err != nil {
			return nil, apperrors.ErrValidation.MsgErr("failed to encode request body", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	target := c.URL(opts.Path, opts.QueryParams)
	req, err := http.NewRequestWithContext(ctx, opts.Method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	requestID := logtrace.RequestIdFromContext(ctx)
	if requestID == "" {
		requestID = logtrace.NewRequestId()
	}
	req.Header.Set(logtrace.RequestIDHeader, requestID)

	// The request is sent even without a token; the server rejects it.
	if opts.RequiresAuth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Token "+token)
		}
	}

	logger := c.logger.With().
		Str("request_id", requestID).
		Str("method", opts.Method).
		Str("path", opts.Path).
		Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("request failed")
		return nil, &TransportError{Method: opts.Method, Path: opts.Path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Debug().Err(err).Msg("failed to read response body")
		return nil, &TransportError{Method: opts.Method, Path: opts.Path, Err: err}
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp.StatusCode, body)
	}
	if resp.StatusCode == http.StatusNoContent {
		body = nil
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// List issues an authenticated GET.
func (c *HTTPClient) List(ctx context.Context, path string) (*Response, error) {
	return c.DoRequest(ctx, RequestOptions{
		Method:       http.MethodGet,
		Path:         path,
		RequiresAuth: true,
	})
}

// Create issues an authenticated POST.
func (c *HTTPClient) Create(ctx context.Context, path string, body any) (*Response, error) {
	return c.DoRequest(ctx, RequestOptions{
		Method:       http.MethodPost,
		Path:         path,
		Body:         body,
		RequiresAuth: true,
	})
}

// Replace issues an authenticated PUT carrying the full record.
func (c *HTTPClient) Replace(ctx context.Context, path string, body any) (*Response, error) {
	return c.DoRequest(ctx, RequestOptions{
		Method:       http.MethodPut,
		Path:         path,
		Body:         body,
		RequiresAuth: true,
	})
}

// Patch issues an authenticated PATCH carrying only the changed fields.
func (c *HTTPClient) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.DoRequest(ctx, RequestOptions{
		Method:       http.MethodPatch,
		Path:         path,
		Body:         body,
		RequiresAuth: true,
	})
}

// Delete issues an authenticated DELETE.
func (c *HTTPClient) Delete(ctx context.Context, path string) error {
	_, err := c.DoRequest(ctx, RequestOptions{
		Method:       http.MethodDelete,
		Path:         path,
		RequiresAuth: true,
	})
	return err
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	default:
		return json.Marshal(body)
	}
}
