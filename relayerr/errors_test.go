package relayerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("prompt is required"), http.StatusBadRequest},
		{"configuration", Configuration("key not configured"), http.StatusInternalServerError},
		{"upstream", Upstream("failed", errors.New("dial tcp: refused")), http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("decode: %w", Validation("bad")), http.StatusBadRequest},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestMessageOf_DoesNotLeakCause(t *testing.T) {
	err := Upstream("Failed to fetch from Gemini API.", errors.New("key=secret123 rejected"))

	assert.Equal(t, "Failed to fetch from Gemini API.", MessageOf(err))
	assert.NotContains(t, MessageOf(err), "secret123")
	assert.Equal(t, InternalMessage, MessageOf(errors.New("raw panic text")))
}

func TestError_UnwrapAndIs(t *testing.T) {
	cause := errors.New("timeout")
	err := Upstream("Failed to create order.", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindUpstream))
	assert.False(t, Is(err, KindValidation))
	assert.Contains(t, err.Error(), "upstream")
}
