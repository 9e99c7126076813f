package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "creditline/pkg/domain-errors"
	"creditline/pkg/requestcontext"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) ContractResponse {
	t.Helper()
	var env ContractResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func TestWriteError(t *testing.T) {
	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/v1/credit-line/request", nil)
		return req.WithContext(requestcontext.WithTime(req.Context(), stamp))
	}

	t.Run("internal error omits message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, newRequest(), dErrors.New(dErrors.CodeInternal, "db failed"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrorTypeUnknownError, env.Error.ErrorType)
		assert.Empty(t, env.Error.ErrorMessage)
		assert.Nil(t, env.Response)
	})

	t.Run("missing header is bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, newRequest(), dErrors.New(dErrors.CodeMissingHeader, "missing required header: customerId"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrorTypeMissingRequiredHeader, env.Error.ErrorType)
		assert.Equal(t, "missing required header: customerId", env.Error.ErrorMessage)
	})

	t.Run("quota denial is 429", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, newRequest(), dErrors.New(dErrors.CodeTooManyRequests, "api quota exceeded"))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrorTypeExceedAPIQuota, env.Error.ErrorType)
	})

	t.Run("envelope carries path and server time", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, newRequest(), dErrors.New(dErrors.CodeInvalidInput, "bad"))

		env := decodeEnvelope(t, w)
		assert.Equal(t, "/v1/credit-line/request", env.Path)
		assert.True(t, env.UTCTimestamp.Equal(stamp))
	})
}

func TestWriteResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/credit-line/status", nil)
	w := httptest.NewRecorder()

	WriteResponse(w, req, http.StatusOK, map[string]string{"creditLineStatus": "ACCEPTED"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	env := decodeEnvelope(t, w)
	assert.Nil(t, env.Error)
	assert.Equal(t, "/v1/credit-line/status", env.Path)
	assert.False(t, env.UTCTimestamp.IsZero())
}

func TestDecode(t *testing.T) {
	type payload struct {
		Amount string `json:"amount"`
	}

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"10"}`))
		var p payload
		require.NoError(t, Decode(req, &p))
		assert.Equal(t, "10", p.Amount)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":`))
		var p payload
		err := Decode(req, &p)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("trailing garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"10"}{"x":1}`))
		var p payload
		err := Decode(req, &p)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nope":true}`))
		var p payload
		err := Decode(req, &p)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
