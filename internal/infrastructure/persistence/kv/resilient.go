package kv

import (
	"context"

	"github.com/trackmystudy/study-hub/pkg/circuitbreaker"
)

// ResilientStore wraps a Store with a circuit breaker. When the backend
// fails repeatedly the breaker opens and calls fail fast instead of
// hanging every HTTP request on a dead connection.
//
// ErrKeyNotFound is not counted as a failure: an absent key is a normal
// answer, not a backend problem.
type ResilientStore struct {
	inner   Store
	breaker *circuitbreaker.CircuitBreaker
}

// NewResilientStore wraps store with the given circuit breaker.
// A nil breaker gets the default storage configuration.
func NewResilientStore(store Store, breaker *circuitbreaker.CircuitBreaker) *ResilientStore {
	if breaker == nil {
		breaker = circuitbreaker.New("storage",
			circuitbreaker.WithIsFailure(IsBackendFailure),
		)
	}
	return &ResilientStore{
		inner:   store,
		breaker: breaker,
	}
}

// IsBackendFailure reports whether err indicates a backend problem rather
// than a normal store answer. Use it as the breaker's failure predicate.
func IsBackendFailure(err error) bool {
	switch err {
	case nil, ErrKeyNotFound, ErrKeyEmpty, ErrNilValue:
		return false
	}
	return true
}

// Get retrieves the value for a key through the breaker.
func (s *ResilientStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		var getErr error
		value, getErr = s.inner.Get(ctx, key)
		return getErr
	})
	return value, err
}

// Set overwrites the value for a key through the breaker.
func (s *ResilientStore) Set(ctx context.Context, key string, value []byte) error {
	return s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.inner.Set(ctx, key, value)
	})
}

// Delete removes a key through the breaker.
func (s *ResilientStore) Delete(ctx context.Context, key string) error {
	return s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.inner.Delete(ctx, key)
	})
}

// Ping bypasses the breaker: health checks must see the real backend
// state, otherwise an open breaker would mask recovery.
func (s *ResilientStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the underlying backend resources.
func (s *ResilientStore) Close() error {
	return s.inner.Close()
}

// State reports the current breaker state.
func (s *ResilientStore) State() circuitbreaker.State {
	return s.breaker.State()
}
