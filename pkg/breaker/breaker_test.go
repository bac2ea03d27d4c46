package breaker

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New(PaymentProcessor, zap.NewNop())
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, boom })
		require.ErrorIs(t, err, boom)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())
	_, err := cb.Execute(func() (interface{}, error) { return "unreachable", nil })
	assert.True(t, IsOpen(err))
}

func TestIsOpenIgnoresOrdinaryErrors(t *testing.T) {
	assert.False(t, IsOpen(errors.New("other")))
	assert.False(t, IsOpen(nil))
}

func TestIgnoredErrorsDoNotTrip(t *testing.T) {
	rejected := errors.New("rejected")
	cb := New(PaymentProcessor, zap.NewNop(), func(err error) bool { return errors.Is(err, rejected) })

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, rejected })
		require.ErrorIs(t, err, rejected)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())

	res, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
}
