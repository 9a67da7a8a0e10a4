package resilience_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/pkg/resilience"
)

var errBackend = errors.New("backend failure")

func testConfig() resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		ErrorThreshold:   2,
		Timeout:          20 * time.Millisecond,
		SuccessThreshold: 1,
	}
}

func failing() error { return errBackend }

func succeeding() error { return nil }

func TestCircuitBreakerTripsAfterThreshold(t *testing.T) {
	ctx := context.Background()
	cb := resilience.NewCircuitBreaker("test", testConfig())

	assert.ErrorIs(t, cb.Execute(ctx, failing), errBackend)
	assert.Equal(t, resilience.StateClosed, cb.GetState())

	assert.ErrorIs(t, cb.Execute(ctx, failing), errBackend)
	assert.Equal(t, resilience.StateOpen, cb.GetState())

	called := false
	err := cb.Execute(ctx, func() error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	ctx := context.Background()
	cb := resilience.NewCircuitBreaker("test", testConfig())

	_ = cb.Execute(ctx, failing)
	require.NoError(t, cb.Execute(ctx, succeeding))
	_ = cb.Execute(ctx, failing)

	assert.Equal(t, resilience.StateClosed, cb.GetState())
}

func TestCircuitBreakerIgnoresCallerCancellation(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test", testConfig())

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	for range 5 {
		err := cb.Execute(canceled, func() error { return canceled.Err() })
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, resilience.StateClosed, cb.GetState())

	expired, cancelExpired := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancelExpired()
	<-expired.Done()
	for range 5 {
		err := cb.Execute(expired, func() error { return expired.Err() })
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assert.Equal(t, resilience.StateClosed, cb.GetState())

	ctx := context.Background()
	_ = cb.Execute(ctx, failing)
	_ = cb.Execute(ctx, failing)
	assert.Equal(t, resilience.StateOpen, cb.GetState(), "real failures still trip the breaker")
}

func TestCircuitBreakerRecovers(t *testing.T) {
	ctx := context.Background()
	cb := resilience.NewCircuitBreaker("test", testConfig())

	_ = cb.Execute(ctx, failing)
	_ = cb.Execute(ctx, failing)
	require.Equal(t, resilience.StateOpen, cb.GetState())

	time.Sleep(30 * time.Millisecond)

	require.NoError(t, cb.Execute(ctx, succeeding))
	assert.Equal(t, resilience.StateClosed, cb.GetState())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	ctx := context.Background()
	cb := resilience.NewCircuitBreaker("test", testConfig())

	_ = cb.Execute(ctx, failing)
	_ = cb.Execute(ctx, failing)
	time.Sleep(30 * time.Millisecond)

	assert.ErrorIs(t, cb.Execute(ctx, failing), errBackend)
	assert.Equal(t, resilience.StateOpen, cb.GetState())
}

func TestCircuitBreakerConcurrentUse(t *testing.T) {
	ctx := context.Background()
	cb := resilience.NewCircuitBreaker("test", resilience.DefaultCircuitBreakerConfig())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = cb.Execute(ctx, failing)
				return
			}
			_ = cb.Execute(ctx, succeeding)
		}(i)
	}
	wg.Wait()

	assert.Contains(t, []resilience.CircuitState{resilience.StateClosed, resilience.StateOpen}, cb.GetState())
}

func TestCircuitStateString(t *testing.T) {
	assert.Equal(t, "closed", resilience.StateClosed.String())
	assert.Equal(t, "open", resilience.StateOpen.String())
	assert.Equal(t, "half-open", resilience.StateHalfOpen.String())
}
