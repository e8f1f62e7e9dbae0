package apperrors

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("derived errors match their kind", func(t *testing.T) {
		ErrBase := New("base error")
		assert.Equal(t, "base error", ErrBase.Error())
		assert.ErrorIs(t, ErrBase, ErrBase)

		ErrChild := ErrBase.New("child")
		assert.Equal(t, "child", ErrChild.Error())
		assert.ErrorIs(t, ErrChild, ErrBase)
		assert.NotErrorIs(t, ErrBase, ErrChild)
	})

	t.Run("causes are matched and expanded", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := ErrTransport.MsgErr("GET shopping-lists/ failed", cause)
		assert.Equal(t, "GET shopping-lists/ failed", err.Error())
		assert.Equal(t, "GET shopping-lists/ failed: connection refused", err.ErrorAll())
		assert.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, ErrHTTPStatus)

		err = ErrMalformedResponse.Err(context.Canceled)
		assert.Equal(t, "malformed response", err.Error())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("status code is inherited", func(t *testing.T) {
		err := ErrHTTPStatus.SetStatusCode(http.StatusUnauthorized).New("invalid token")
		assert.Equal(t, http.StatusUnauthorized, err.StatusCode())
		assert.ErrorIs(t, err, ErrHTTPStatus)
		assert.Equal(t, 0, ErrHTTPStatus.StatusCode())
	})

	t.Run("works with errors.As through fmt wrapping", func(t *testing.T) {
		wrapped := errors.Wrap(ErrValidation.New("username is required"), "sign in")
		var appErr Error
		assert.True(t, errors.As(wrapped, &appErr))
		assert.Equal(t, "username is required", appErr.Error())
		assert.ErrorIs(t, wrapped, ErrValidation)
	})
}
