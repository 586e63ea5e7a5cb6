package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartRunsJobImmediately(t *testing.T) {
	ran := make(chan struct{}, 1)
	s := New(time.Hour, time.Second, func(_ context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	}, discardLogger())
	defer s.Stop()

	require.NoError(t, s.Start())

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestJobContextCarriesTimeout(t *testing.T) {
	var hasDeadline atomic.Bool
	done := make(chan struct{}, 1)
	s := New(time.Hour, 30*time.Second, func(ctx context.Context) {
		_, ok := ctx.Deadline()
		hasDeadline.Store(ok)
		select {
		case done <- struct{}{}:
		default:
		}
	}, discardLogger())
	defer s.Stop()

	require.NoError(t, s.Start())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
	assert.True(t, hasDeadline.Load())
}

func TestStopIsSafeWithoutStart(t *testing.T) {
	s := New(time.Minute, time.Second, func(_ context.Context) {}, discardLogger())
	s.Stop()
}
