// Package kv defines the key-value blob store abstraction that both
// aggregates persist through, plus the aggregate repositories built on it.
//
// The whole persistence surface is two keys, each holding one serialized
// aggregate, overwritten wholesale on every mutation. Backends: in-memory
// (this package), Redis, and Postgres.
package kv

import (
	"context"
	"errors"
)

// Persistence keys, one per aggregate.
const (
	KeyUserData  = "trackmystudy:userdata"
	KeyChallenge = "trackmystudy:challenge"
)

// Store errors.
var (
	// ErrKeyNotFound is returned when the key holds no value.
	ErrKeyNotFound = errors.New("kv: key not found")

	// ErrKeyEmpty is returned when an empty key is provided.
	ErrKeyEmpty = errors.New("kv: key cannot be empty")

	// ErrNilValue is returned when attempting to store a nil value.
	ErrNilValue = errors.New("kv: cannot store nil value")

	// ErrConnection is returned when the backend is unreachable.
	ErrConnection = errors.New("kv: connection error")
)

// Store is a synchronous key-value blob store.
type Store interface {
	// Get retrieves the value for a key.
	// Returns ErrKeyNotFound when the key holds no value.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value for a key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
