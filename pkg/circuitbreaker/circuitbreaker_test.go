package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAndRecovers(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(Config{
		FailureThreshold:    2,
		SuccessThreshold:    1,
		Timeout:             time.Minute,
		HalfOpenMaxRequests: 1,
	})
	cb.now = func() time.Time { return clock }

	fail := errors.New("down")
	assert.ErrorIs(t, cb.Execute(func() error { return fail }), fail)
	assert.Equal(t, StateClosed, cb.GetState())
	assert.ErrorIs(t, cb.Execute(func() error { return fail }), fail)
	assert.Equal(t, StateOpen, cb.GetState())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitBreakerOpen)
	assert.False(t, called)

	clock = clock.Add(2 * time.Minute)
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Second, HalfOpenMaxRequests: 1})
	cb.now = func() time.Time { return clock }

	_ = cb.Execute(func() error { return errors.New("x") })
	assert.Equal(t, StateOpen, cb.GetState())

	clock = clock.Add(2 * time.Second)
	_ = cb.Execute(func() error { return errors.New("still down") })
	assert.Equal(t, StateOpen, cb.GetState())
	assert.Equal(t, "open", cb.GetState().String())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.GetState())
}
