package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chorify/chorify/internal/common/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type recordedRequest struct {
	Method  string
	Path    string
	Auth    string
	Content string
	Body    string
}

func newRecordingServer(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Auth = r.Header.Get("Authorization")
		rec.Content = r.Header.Get("Content-Type")
		rec.Body = string(data)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != "" {
			_, _ = w.Write([]byte(body))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestNewClientValidatesURL(t *testing.T) {
	_, err := NewClient("ftp://example.com", nil)
	assert.ErrorIs(t, err, apperrors.ErrConfig)
	_, err = NewClient("http://", nil)
	assert.ErrorIs(t, err, apperrors.ErrConfig)
	_, err = NewClient("http://localhost:8000/api/", nil)
	assert.NoError(t, err)
}

func TestURLKeepsTrailingSlash(t *testing.T) {
	c, err := NewClient("http://localhost:8000/api", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/shopping-lists/", c.URL("shopping-lists/", nil))
	assert.Equal(t, "http://localhost:8000/api/todo-lists/4/", c.URL("/todo-lists/4/", nil))

	c, err = NewClient("http://localhost:8000/api/", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/auth/login/", c.URL("auth/login/", nil))
}

func TestURLEscapesOnce(t *testing.T) {
	c, err := NewClient("http://localhost:8000/api/", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/todo-lists/a%20b/", c.URL("todo-lists/a%20b/", nil))
	assert.Equal(t, "http://localhost:8000/api/todo-lists/a%2Fb/", c.URL("todo-lists/a%2Fb/", nil))
	assert.Equal(t, "http://localhost:8000/api/todo-lists/a%20b/", c.URL("todo-lists/a b/", nil))
	assert.Equal(t, "http://localhost:8000/api/todo-lists/50%25zz/", c.URL("todo-lists/50%zz/", nil))
}

func TestUnencodableBodyIsValidationError(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusOK, `{}`)
	c, err := NewClient(srv.URL+"/api/", nil)
	require.NoError(t, err)

	_, err = c.Create(context.Background(), "shopping-lists/", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, rec.Method)
}

func TestAuthenticatedRequest(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusCreated, `{"id":1,"name":"Groceries","items":[]}`)
	c, err := NewClient(srv.URL+"/api/", staticToken("abc"))
	require.NoError(t, err)

	rsp, err := c.Create(context.Background(), "shopping-lists/", map[string]any{"name": "Groceries"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rsp.StatusCode)
	assert.Equal(t, "Groceries", rsp.Get("name").String())

	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/api/shopping-lists/", rec.Path)
	assert.Equal(t, "Token abc", rec.Auth)
	assert.Equal(t, "application/json", rec.Content)
	assert.JSONEq(t, `{"name":"Groceries"}`, rec.Body)
}

func TestUnauthenticatedRequestOmitsHeader(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusOK, `{"key":"k"}`)
	c, err := NewClient(srv.URL+"/api/", staticToken("abc"))
	require.NoError(t, err)

	_, err = c.DoRequest(context.Background(), RequestOptions{
		Method: http.MethodPost,
		Path:   "auth/login/",
		Body:   json.RawMessage(`{"username":"u","password":"p"}`),
	})
	require.NoError(t, err)
	assert.Empty(t, rec.Auth)
	assert.JSONEq(t, `{"username":"u","password":"p"}`, rec.Body)
}

func TestMissingTokenStillSends(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusUnauthorized, `{"detail":"Authentication credentials were not provided."}`)
	c, err := NewClient(srv.URL+"/api/", staticToken(""))
	require.NoError(t, err)

	_, err = c.List(context.Background(), "todo-lists/")
	require.Error(t, err)
	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Empty(t, rec.Auth)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, "Authentication credentials were not provided.", httpErr.Message)
	assert.ErrorIs(t, err, apperrors.ErrHTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
}

func TestNoContent(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusNoContent, "")
	c, err := NewClient(srv.URL+"/api/", staticToken("abc"))
	require.NoError(t, err)

	err = c.Delete(context.Background(), "todo-lists/3/")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, "/api/todo-lists/3/", rec.Path)

	rsp, err := c.DoRequest(context.Background(), RequestOptions{Method: http.MethodPost, Path: "auth/registration/"})
	require.NoError(t, err)
	assert.True(t, rsp.Empty())
	assert.ErrorIs(t, rsp.Decode(&map[string]any{}), apperrors.ErrMalformedResponse)
}

func TestMalformedBody(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, `<html>oops</html>`)
	c, err := NewClient(srv.URL+"/api/", nil)
	require.NoError(t, err)

	rsp, err := c.List(context.Background(), "shopping-lists/")
	require.NoError(t, err)
	var lists []map[string]any
	assert.ErrorIs(t, rsp.Decode(&lists), apperrors.ErrMalformedResponse)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api/"
	srv.Close()

	c, err := NewClient(base, nil, ClientOptions{Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.List(context.Background(), "shopping-lists/")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.NotErrorIs(t, err, apperrors.ErrHTTPStatus)
	assert.Equal(t, 0, StatusCode(err))
}

func TestCanceledContextIsTransportError(t *testing.T) {
	c := NewTestClient(http.NotFoundHandler(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.List(ctx, "shopping-lists/")
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail", 403, `{"detail":"nope"}`, "nope"},
		{"non field errors", 400, `{"non_field_errors":["Unable to log in with provided credentials."]}`, "Unable to log in with provided credentials."},
		{"field error", 400, `{"password1":["This password is too short."]}`, "password1: This password is too short."},
		{"error key", 500, `{"result":0,"error":"boom"}`, "boom"},
		{"plain text", 502, "Bad Gateway", "Bad Gateway"},
		{"empty not found", 404, "", "server doesn't implement this endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage(tt.status, []byte(tt.body)))
		})
	}
}
