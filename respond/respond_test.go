package respond

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relay/relayerr"
)

func TestError_WritesClientSafeMessage(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, relayerr.Upstream("Failed to create order.", errors.New("401 from provider, key rzp_live_x")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Failed to create order."}`, w.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Prompt string `json:"prompt"`
	}

	t.Run("empty body is zero value", func(t *testing.T) {
		var b body
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		require.NoError(t, DecodeJSON(r, &b))
		assert.Empty(t, b.Prompt)
	})

	t.Run("malformed body is a validation error", func(t *testing.T) {
		var b body
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
		err := DecodeJSON(r, &b)
		require.Error(t, err)
		assert.True(t, relayerr.Is(err, relayerr.KindValidation))
	})

	t.Run("trailing data is rejected", func(t *testing.T) {
		for _, raw := range []string{`{"prompt":"a"} junk`, `{"prompt":"a"}{"prompt":"b"}`, `{"prompt":"a"}}`} {
			var b body
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
			err := DecodeJSON(r, &b)
			require.Error(t, err, raw)
			assert.Equal(t, "invalid request body", relayerr.MessageOf(err))
		}
	})

	t.Run("trailing whitespace is fine", func(t *testing.T) {
		var b body
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{\"prompt\":\"a\"}\n  "))
		require.NoError(t, DecodeJSON(r, &b))
		assert.Equal(t, "a", b.Prompt)
	})

	t.Run("oversized body", func(t *testing.T) {
		var b body
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"prompt":"`+strings.Repeat("a", 64)+`"}`))
		r.Body = http.MaxBytesReader(w, r.Body, 16)
		err := DecodeJSON(r, &b)
		assert.Equal(t, "request body too large", relayerr.MessageOf(err))
	})
}

func TestText(t *testing.T) {
	w := httptest.NewRecorder()
	Text(w, http.StatusOK, "Backend is running!")

	assert.Equal(t, "Backend is running!", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
