package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusRecorder(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := NewStatusRecorder(rr)
	assert.False(t, rec.Started())
	assert.Equal(t, http.StatusOK, rec.Status())
	assert.Same(t, rec, NewStatusRecorder(rec))

	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusBadRequest)
	_, err := rec.Write([]byte(`{"id":1}`))
	assert.NoError(t, err)

	assert.True(t, rec.Started())
	assert.Equal(t, http.StatusCreated, rec.Status())
	assert.Equal(t, 8, rec.BytesWritten())
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{}
	assert.NoError(t, errs.OrNil())

	errs.Add("name", "This field is required.")
	errs.Add("non_field_errors", "Bad request.")
	assert.Error(t, errs.OrNil())

	rr := httptest.NewRecorder()
	errs.Send(rr)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"name":["This field is required."],"non_field_errors":["Bad request."]}`, rr.Body.String())
}
