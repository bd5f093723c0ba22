package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the default limit for evaluating one script.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is wrapped by errors from work that ran past its limit.
	ErrTimeout = errors.New("timed out")
	// ErrSuperseded is wrapped by errors for results a newer request replaced.
	ErrSuperseded = errors.New("superseded by newer request")
)

// Bounded runs work on its own goroutine and waits until it returns, limit
// elapses or ctx is done. A limit <= 0 means no limit. A panic in work is
// returned as an error naming what was running.
//
// On timeout the goroutine keeps running and its result is dropped, so work
// must not share mutable state with the caller.
func Bounded[T any](ctx context.Context, limit time.Duration, what string, work func() (T, error)) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("panic during %s: %v", what, r)}
			}
		}()
		v, err := work()
		ch <- outcome{v: v, err: err}
	}()

	var expired <-chan time.Time
	if limit > 0 {
		timer := time.NewTimer(limit)
		defer timer.Stop()
		expired = timer.C
	}

	var zero T
	select {
	case o := <-ch:
		return o.v, o.err
	case <-expired:
		return zero, fmt.Errorf("%s %w after %s", what, ErrTimeout, limit)
	case <-ctx.Done():
		return zero, fmt.Errorf("%s: %w", what, ctx.Err())
	}
}

// generation numbers requests so that only the newest result is kept.
type generation struct {
	mu sync.Mutex
	n  uint64
}

// next starts a new request and returns its number.
func (g *generation) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.n
}

// latest reports whether request n is still the newest.
func (g *generation) latest(n uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n == n
}
