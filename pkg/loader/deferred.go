// Package loader fetches one entity ahead of rendering the form that edits
// it. A Deferred value is resolved by exactly one fetch; there is no retry.
// Until renders a placeholder while the value is pending and replaces it
// once the fetch settles.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Status reports where a Deferred value is in its lifecycle.
type Status int

const (
	Loading Status = iota // Fetch in progress
	Ready                 // Value available
	Failed                // Fetch rejected
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchFunc loads the entity identified by id.
type FetchFunc[T any] func(ctx context.Context, id string) (T, error)

// Deferred is a value that becomes available once its single fetch settles.
type Deferred[T any] struct {
	id   string
	done chan struct{}

	mu     sync.RWMutex
	status Status
	value  T
	err    error
}

// Load starts fetching id in the background and returns immediately.
func Load[T any](ctx context.Context, id string, fetch FetchFunc[T]) *Deferred[T] {
	d := &Deferred[T]{
		id:     id,
		done:   make(chan struct{}),
		status: Loading,
	}
	if fetch == nil {
		d.settle(*new(T), ErrNoFetcher)
		return d
	}

	go func() {
		value, err := fetch(ctx, id)
		if err != nil {
			err = fmt.Errorf("loader: load %q: %w", id, err)
		}
		d.settle(value, err)
	}()
	return d
}

// Resolved returns a Deferred that is already ready with value.
func Resolved[T any](id string, value T) *Deferred[T] {
	d := &Deferred[T]{id: id, done: make(chan struct{}), status: Loading}
	d.settle(value, nil)
	return d
}

func (d *Deferred[T]) settle(value T, err error) {
	d.mu.Lock()
	if err != nil {
		d.status = Failed
		d.err = err
	} else {
		d.status = Ready
		d.value = value
	}
	d.mu.Unlock()
	close(d.done)
}

// ID returns the external key being loaded.
func (d *Deferred[T]) ID() string {
	return d.id
}

// Done is closed once the fetch settles.
func (d *Deferred[T]) Done() <-chan struct{} {
	return d.done
}

// Status returns the current lifecycle state.
func (d *Deferred[T]) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// Result returns the settled value and error. Before settling it returns
// ErrPending.
func (d *Deferred[T]) Result() (T, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.status == Loading {
		return *new(T), ErrPending
	}
	return d.value, d.err
}

// Await blocks until the fetch settles or ctx is done.
func (d *Deferred[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		return d.Result()
	case <-ctx.Done():
		return *new(T), ctx.Err()
	}
}

// Handlers receive the phases of Until. Placeholder and Failed may be nil.
type Handlers[T any] struct {
	Placeholder func(ctx context.Context) error
	Ready       func(ctx context.Context, value T) error
	Failed      func(ctx context.Context, err error) error
}

// Until renders the placeholder unless the value settles within after, then
// hands the settled value (or error) to Ready (or Failed). A nil Failed
// handler returns the load error to the caller.
func Until[T any](ctx context.Context, d *Deferred[T], handlers Handlers[T], after time.Duration) error {
	if d == nil {
		return ErrNoFetcher
	}
	if handlers.Ready == nil {
		return errors.New("loader: ready handler is required")
	}

	if !settledWithin(ctx, d, after) && handlers.Placeholder != nil {
		if err := handlers.Placeholder(ctx); err != nil {
			return err
		}
	}

	value, err := d.Await(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if handlers.Failed == nil {
			return err
		}
		return handlers.Failed(ctx, err)
	}
	return handlers.Ready(ctx, value)
}

func settledWithin[T any](ctx context.Context, d *Deferred[T], after time.Duration) bool {
	if after <= 0 {
		select {
		case <-d.done:
			return true
		default:
			return false
		}
	}
	timer := time.NewTimer(after)
	defer timer.Stop()
	select {
	case <-d.done:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}
