// Package shutdown coordinates ordered process teardown. Components register
// cleanup callbacks once at startup; the first termination trigger (signal,
// fatal error, or explicit call) runs every callback concurrently, bounded by
// a single deadline, and then exits the process.
package shutdown

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

const (
	stateIdle int32 = iota
	stateShuttingDown
	stateTerminated
)

type CleanupFunc func(ctx context.Context) error

type registration struct {
	name string
	fn   CleanupFunc
}

type Coordinator struct {
	timeout time.Duration

	mu       sync.Mutex
	cleanups []registration

	state atomic.Int32
	done  chan struct{}

	logf func(format string, v ...any)
	exit func(code int)
}

func NewCoordinator(timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Coordinator{
		timeout: timeout,
		done:    make(chan struct{}),
		logf:    log.Printf,
		exit:    os.Exit,
	}
}

// Register appends a cleanup callback. There is no unregister; registrations
// live for the life of the process.
func (c *Coordinator) Register(name string, fn CleanupFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == "" {
		name = fmt.Sprintf("cleanup-%d", len(c.cleanups)+1)
	}
	c.cleanups = append(c.cleanups, registration{name: name, fn: fn})
}

// Listen arms SIGINT/SIGTERM handling. The first signal received triggers
// Shutdown from a background goroutine.
func (c *Coordinator) Listen() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-ch
		c.Shutdown(fmt.Sprintf("received signal %s", sig))
	}()
}

// Shutdown runs the cleanup sequence exactly once. A second call while a
// shutdown is in flight is logged and ignored. The process exits with 0 when
// every callback settles in time and 1 when the deadline elapses first.
func (c *Coordinator) Shutdown(reason string) {
	if !c.state.CompareAndSwap(stateIdle, stateShuttingDown) {
		c.logf("shutdown already in progress, ignoring trigger: %s", reason)
		return
	}
	c.logf("shutting down: %s", reason)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	finished := make(chan struct{})
	go func() {
		c.runCleanups(ctx)
		close(finished)
	}()

	select {
	case <-finished:
		c.state.Store(stateTerminated)
		close(c.done)
		c.logf("shutdown complete")
		c.exit(0)
	case <-ctx.Done():
		c.state.Store(stateTerminated)
		close(c.done)
		c.logf("shutdown timed out after %s", c.timeout)
		c.exit(1)
	}
}

// Wait blocks until a shutdown sequence has finished. It never returns in a
// normal process (exit fires first); it exists for callers that override exit.
func (c *Coordinator) Wait() {
	<-c.done
}

func (c *Coordinator) runCleanups(ctx context.Context) {
	c.mu.Lock()
	regs := make([]registration, len(c.cleanups))
	copy(regs, c.cleanups)
	c.mu.Unlock()

	var wg sync.WaitGroup
	for _, reg := range regs {
		wg.Add(1)
		go func(r registration) {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					c.logf("cleanup %s panicked: %v", r.name, p)
				}
			}()
			if err := r.fn(ctx); err != nil {
				c.logf("cleanup %s failed: %v", r.name, err)
				return
			}
			c.logf("cleanup %s done", r.name)
		}(reg)
	}
	wg.Wait()
}
