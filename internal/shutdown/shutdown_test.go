package shutdown

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoordinator(timeout time.Duration) (*Coordinator, *int32) {
	c := NewCoordinator(timeout)
	exitCode := int32(-1)
	c.exit = func(code int) {
		atomic.StoreInt32(&exitCode, int32(code))
	}
	c.logf = func(format string, v ...any) {}
	return c, &exitCode
}

func TestCoordinator_RunsAllCleanups(t *testing.T) {
	c, exitCode := newTestCoordinator(time.Second)

	var first, second atomic.Bool
	c.Register("first", func(ctx context.Context) error {
		first.Store(true)
		return errors.New("release failed")
	})
	c.Register("second", func(ctx context.Context) error {
		second.Store(true)
		return nil
	})

	c.Shutdown("test")

	assert.True(t, first.Load())
	assert.True(t, second.Load(), "a failing callback must not block the others")
	assert.Equal(t, int32(0), atomic.LoadInt32(exitCode), "callback errors do not fail the shutdown")
}

func TestCoordinator_PanickingCleanupIsContained(t *testing.T) {
	c, exitCode := newTestCoordinator(time.Second)

	var survived atomic.Bool
	c.Register("panics", func(ctx context.Context) error {
		panic("cleanup bug")
	})
	c.Register("survives", func(ctx context.Context) error {
		survived.Store(true)
		return nil
	})

	c.Shutdown("test")

	assert.True(t, survived.Load())
	assert.Equal(t, int32(0), atomic.LoadInt32(exitCode))
}

func TestCoordinator_ShutdownRunsOnce(t *testing.T) {
	c, _ := newTestCoordinator(time.Second)

	var calls atomic.Int32
	c.Register("counter", func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Shutdown("concurrent trigger")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "the cleanup sequence runs exactly once")
}

func TestCoordinator_TimeoutExitsWithFailure(t *testing.T) {
	c, exitCode := newTestCoordinator(50 * time.Millisecond)

	c.Register("hangs", func(ctx context.Context) error {
		<-make(chan struct{})
		return nil
	})

	start := time.Now()
	c.Shutdown("test")
	elapsed := time.Since(start)

	assert.Equal(t, int32(1), atomic.LoadInt32(exitCode), "a hanging cleanup must fail the shutdown")
	assert.Less(t, elapsed, time.Second, "shutdown is bounded by its timeout")
}

func TestCoordinator_WaitUnblocksAfterShutdown(t *testing.T) {
	c, _ := newTestCoordinator(time.Second)
	c.Register("noop", func(ctx context.Context) error { return nil })

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	c.Shutdown("test")

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "Wait did not unblock after shutdown")
	}
}
