package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindAuth, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindStorage, http.StatusInternalServerError},
		{KindAI, http.StatusInternalServerError},
		{KindBlockchain, http.StatusInternalServerError},
		{KindExif, http.StatusInternalServerError},
		{KindReverseImage, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, New(tc.kind, "svc", "op", "msg").HTTPStatus(), string(tc.kind))
	}
}

func TestFromErrorUnwrapsChain(t *testing.T) {
	inner := New(KindBlockchain, "etherscan", "wallet_history", "api error")
	wrapped := fmt.Errorf("collecting: %w", inner)

	got := FromError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, KindBlockchain, got.Kind)
	assert.True(t, IsKind(wrapped, KindBlockchain))
	assert.False(t, IsKind(wrapped, KindAI))
}

func TestStatusOfPlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(New(KindValidation, "api", "bind", "bad input")))
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(KindStorage, "storage", "download", "download failed", errors.New("404"))
	assert.Contains(t, err.Error(), "storage/download")
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, "404", errors.Unwrap(err).Error())
}

func TestWithContext(t *testing.T) {
	err := New(KindValidation, "api", "assess", "bad wallet").With("address", "0x0")
	assert.Equal(t, "0x0", err.Context["address"])
}
