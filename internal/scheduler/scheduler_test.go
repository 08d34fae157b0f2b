package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnceReturnsCycleError(t *testing.T) {
	s := New(time.Minute, true)
	want := errors.New("boom")
	err := s.Run(context.Background(), func(context.Context) error { return want })
	assert.ErrorIs(t, err, want)
}

func TestRunOnceSingleExecution(t *testing.T) {
	var calls int32
	s := New(10*time.Millisecond, true)
	require.NoError(t, s.Run(context.Background(), func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRunTicksUntilCancelled(t *testing.T) {
	var calls int32
	ctx, cancel := context.WithCancel(context.Background())
	s := New(5*time.Millisecond, false)

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(context.Context) error {
			if atomic.AddInt32(&calls, 1) >= 3 {
				cancel()
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestRunKeepsGoingAfterCycleError(t *testing.T) {
	var calls int32
	ctx, cancel := context.WithCancel(context.Background())
	s := New(5*time.Millisecond, false)

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(context.Context) error {
			if atomic.AddInt32(&calls, 1) >= 2 {
				cancel()
				return nil
			}
			return errors.New("transient")
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler stopped retrying after a cycle error")
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestNewClampsInterval(t *testing.T) {
	assert.Equal(t, 5*time.Minute, New(0, false).Interval)
	assert.Equal(t, time.Second, New(time.Second, false).Interval)
}
