// Package optimistic applies a state change immediately and rolls it back when
// the persistence step behind it fails.
package optimistic

import (
	"context"
	"sync"
)

// Value is state the UI reads while a commit may still be in flight.
type Value[T any] struct {
	mu      sync.Mutex // serializes Mutate
	stateMu sync.RWMutex
	state   T
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{state: initial}
}

// Get returns the currently visible state, optimistic or not.
func (v *Value[T]) Get() T {
	v.stateMu.RLock()
	defer v.stateMu.RUnlock()
	return v.state
}

// Set replaces the state outside of any mutation, e.g. after a reload.
func (v *Value[T]) Set(state T) {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()
	v.state = state
}

// Mutate makes next(prior) visible, then runs commit. When commit fails the
// prior state is restored and the commit error returned.
func Mutate[T any](ctx context.Context, v *Value[T], next func(prior T) T, commit func(ctx context.Context) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	prior := v.Get()
	v.Set(next(prior))

	if err := commit(ctx); err != nil {
		v.Set(prior)
		return err
	}
	return nil
}

// Toggle flips a membership flag optimistically. On failure the flag reverts
// and onFailure, when set, is told about the error.
type Toggle struct {
	Value     *Value[bool]
	OnFailure func(err error)
}

func NewToggle(initial bool, onFailure func(err error)) *Toggle {
	return &Toggle{Value: NewValue(initial), OnFailure: onFailure}
}

// Flip inverts the flag and commits with the new value.
func (t *Toggle) Flip(ctx context.Context, commit func(ctx context.Context, on bool) error) (bool, error) {
	var target bool
	err := Mutate(ctx, t.Value, func(prior bool) bool {
		target = !prior
		return target
	}, func(ctx context.Context) error {
		return commit(ctx, target)
	})
	if err != nil {
		if t.OnFailure != nil {
			t.OnFailure(err)
		}
		return t.Value.Get(), err
	}
	return target, nil
}
