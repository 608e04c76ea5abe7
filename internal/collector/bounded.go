package collector

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type outcome[T any] struct {
	value T
	err   error
}

// Bounded runs op and waits at most d for it.
//
// It returns op's value when op succeeds in time, (fallback, err) when op
// fails or panics, and (fallback, ErrTimeout) when the deadline or the
// parent context ends first. The context passed to op is cancelled when
// Bounded returns, but op is never waited for after that.
func Bounded[T any](ctx context.Context, d time.Duration, fallback T, op func(context.Context) (T, error)) (T, error) {
	return BoundedRelease(ctx, d, fallback, op, nil)
}

// BoundedRelease is Bounded for ops that return a resource. When op
// succeeds after the caller stopped waiting, release is called with the
// abandoned value so it can be closed. A nil release drops the value.
func BoundedRelease[T any](ctx context.Context, d time.Duration, fallback T, op func(context.Context) (T, error), release func(T)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	var (
		mu        sync.Mutex
		abandoned bool
	)

	// Buffered so an abandoned op can always deliver and exit.
	done := make(chan outcome[T], 1)
	go func() {
		var out outcome[T]
		defer func() {
			if r := recover(); r != nil {
				out = outcome[T]{err: fmt.Errorf("%w: %v", ErrPanic, r)}
			}
			mu.Lock()
			defer mu.Unlock()
			if abandoned {
				if out.err == nil && release != nil {
					release(out.value)
				}
				return
			}
			done <- out
		}()
		out.value, out.err = op(ctx)
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return fallback, out.err
		}
		return out.value, nil
	case <-ctx.Done():
		mu.Lock()
		abandoned = true
		mu.Unlock()

		// The op may have delivered while the deadline fired.
		select {
		case out := <-done:
			if out.err == nil && release != nil {
				release(out.value)
			}
		default:
		}
		return fallback, ErrTimeout
	}
}
