package httpclient

import (
	"net/http"
	"net/http/httptest"
)

// TestServerURL is the base address used by clients created with NewTestClient.
const TestServerURL = "http://chorify.test/api/"

// handlerTransport serves requests with an in-process handler instead of the
// network, capturing the response with httptest.NewRecorder.
type handlerTransport struct {
	handler http.Handler
}

func (t handlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	rr := httptest.NewRecorder()
	t.handler.ServeHTTP(rr, req)
	resp := rr.Result()
	resp.Request = req
	return resp, nil
}

// NewTestClient creates a client whose requests are served directly by handler.
func NewTestClient(handler http.Handler, tokens TokenSource, opts ...ClientOptions) *HTTPClient {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}
	clientOpts.Transport = handlerTransport{handler: handler}
	c, err := NewClient(TestServerURL, tokens, clientOpts)
	if err != nil {
		panic(err)
	}
	return c
}
