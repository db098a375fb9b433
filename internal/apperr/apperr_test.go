package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("amount must be positive"), http.StatusBadRequest},
		{Unauthorized("no identity"), http.StatusUnauthorized},
		{NotFound("bill"), http.StatusNotFound},
		{Conflict("duplicate %s", "name"), http.StatusConflict},
		{Configuration("unknown table %q", "x"), http.StatusInternalServerError},
		{Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(c.err), c.err.Error())
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("loading account: %w", NotFound("account"))

	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindValidation))
	assert.Equal(t, "account not found", Message(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("query failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "query failed: connection reset", err.Error())
	assert.Equal(t, "internal", KindOf(err).String())
}
