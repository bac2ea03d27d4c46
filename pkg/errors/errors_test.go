package errors

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrUpstreamUnavailable.Code, http.StatusServiceUnavailable},
		{"bad conn", driver.ErrBadConn, ErrUpstreamUnavailable.Code, http.StatusServiceUnavailable},
		{"plain", errors.New("boom"), ErrInternal.Code, http.StatusInternalServerError},
		{"typed", Clone(ErrClassFull, ""), ErrClassFull.Code, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.err, "failed")
			assert.Equal(t, tc.code, got.Code)
			assert.Equal(t, tc.status, got.Status)
		})
	}
	assert.Nil(t, Classify(nil, "unused"))
}

func TestFromErrorKeepsWrappedTypedError(t *testing.T) {
	wrapped := fmt.Errorf("select: %w", ErrPreconditionFailed)
	got := FromError(wrapped)
	assert.Same(t, ErrPreconditionFailed, got)
	assert.Nil(t, FromError(nil))
}

func TestIsMatchesByCode(t *testing.T) {
	custom := Clone(ErrNotFound, "selection not found")
	assert.True(t, errors.Is(custom, ErrNotFound))
	assert.False(t, errors.Is(custom, ErrConflict))
	assert.Equal(t, "selection not found", custom.Error())
	assert.Equal(t, ErrNotFound.Message, ErrNotFound.Error())
}

func TestRetryableOnlyForUpstream(t *testing.T) {
	assert.True(t, Classify(context.DeadlineExceeded, "x").Retryable())
	assert.False(t, ErrInternal.Retryable())
	var nilErr *Error
	assert.False(t, nilErr.Retryable())
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("disk")
	err := Wrap(cause, ErrInternal.Code, ErrInternal.Status, "store failed")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store failed: disk", err.Error())
}
