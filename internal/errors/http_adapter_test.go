package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)

	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ValidationError("bad payload").Build(), http.StatusBadRequest},
		{AuthError("signature mismatch").Build(), http.StatusForbidden},
		{ConfigError("secret missing").Build(), http.StatusInternalServerError},
		{ModelError("channel down").Build(), http.StatusBadGateway},
		{NetworkError("timeout").Build(), http.StatusBadGateway},
		{ParseError("bad xml").Build(), http.StatusUnprocessableEntity},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, adapter.StatusCodeFor(tt.err), "error: %v", tt.err)
	}
}

func TestFormatErrorResponse_ConfigErrorsAreOpaque(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)

	resp := adapter.FormatErrorResponse(ConfigError("webhook secret not configured").Build())
	assert.Equal(t, "internal server error", resp.Error)
	assert.NotContains(t, resp.Error, "secret")
}

func TestFormatErrorResponse_ClassifiedDetail(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)

	resp := adapter.FormatErrorResponse(ModelError("model channel dial failed").Build())
	assert.Equal(t, "model channel dial failed", resp.Error)
	assert.Equal(t, string(CategoryModel), resp.Code)
	assert.True(t, resp.Retryable)
}

func TestWriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)

	adapter.WriteErrorResponse(rec, req, ValidationError("missing signature").Build())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "missing signature", payload.Error)
	assert.Equal(t, string(CategoryValidation), payload.Code)
}
