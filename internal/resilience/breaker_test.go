package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_OpensAndRecovers(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker("serper", 2, time.Minute)
	b.now = func() time.Time { return now }

	fail := func(_ context.Context) (int, error) {
		return 0, NewTransientError(errors.New("down"), 503)
	}
	ok := func(_ context.Context) (int, error) { return 1, nil }

	_, _ = Call(context.Background(), b, fail)
	_, _ = Call(context.Background(), b, fail)
	assert.Equal(t, StateOpen, b.State())

	_, err := Call(context.Background(), b, ok)
	require.ErrorIs(t, err, ErrCircuitOpen)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, StateHalfOpen, b.State())

	got, err := Call(context.Background(), b, ok)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_PermanentErrorsDoNotTrip(t *testing.T) {
	b := NewBreaker("serper", 1, time.Minute)
	_, err := Call(context.Background(), b, func(_ context.Context) (int, error) {
		return 0, errors.New("bad request")
	})
	require.Error(t, err)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_Nil(t *testing.T) {
	var b *Breaker
	got, err := Call(context.Background(), b, func(_ context.Context) (string, error) { return "x", nil })
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}
