package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := NotFound("resolver.Get", "conversation %s not found", "c1")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrNotAParticipant))
	assert.Equal(t, "resolver.Get: conversation c1 not found", err.Error())

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestStoreUnavailable_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := StoreUnavailable("messages.Append", cause)

	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsRetryable(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(InvalidContext("op", "bad")))
	assert.False(t, IsRetryable(NotAParticipant("op", "nope")))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("op", "x"), http.StatusNotFound},
		{"not a participant", NotAParticipant("op", "x"), http.StatusForbidden},
		{"invalid context", InvalidContext("op", "x"), http.StatusBadRequest},
		{"store unavailable", StoreUnavailable("op", errors.New("down")), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
