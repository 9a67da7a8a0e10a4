package shutdown_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"notekeeper/pkg/shutdown"
)

func TestWaitRunsHooksOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	hook := func(context.Context) error {
		calls.Add(1)
		return nil
	}

	waitDone := make(chan struct{})
	go func() {
		shutdown.Wait(ctx, time.Second, hook, hook)
		close(waitDone)
	}()

	cancel()

	select {
	case <-waitDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after context cancel")
	}

	assert.Equal(t, int32(2), calls.Load())
}

func TestWaitGivesHooksLiveContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var hookErr error
	shutdown.Wait(ctx, time.Second, func(hookCtx context.Context) error {
		hookErr = hookCtx.Err()
		return nil
	})

	assert.NoError(t, hookErr, "hooks should not inherit cancellation of the parent context")
}

func TestRunRespectsTimeout(t *testing.T) {
	slowHook := func(ctx context.Context) error {
		select {
		case <-time.After(2 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	start := time.Now()
	shutdown.Run(context.Background(), 200*time.Millisecond, slowHook)

	assert.Less(t, time.Since(start), time.Second)
}

func TestRunToleratesFailingHooks(t *testing.T) {
	var okCalled atomic.Bool

	assert.NotPanics(t, func() {
		shutdown.Run(context.Background(), time.Second,
			func(context.Context) error { return errors.New("close failed") },
			func(context.Context) error {
				okCalled.Store(true)
				return nil
			},
		)
	})

	assert.True(t, okCalled.Load())
}
