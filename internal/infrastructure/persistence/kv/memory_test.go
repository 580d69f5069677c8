package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Set(ctx, "k", []byte(`{"a":1}`))
	assert.NoError(t, err)

	value, err := store.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), value)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStore_Validation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrKeyEmpty)

	assert.ErrorIs(t, store.Set(ctx, "", []byte("v")), ErrKeyEmpty)
	assert.ErrorIs(t, store.Set(ctx, "k", nil), ErrNilValue)
	assert.ErrorIs(t, store.Delete(ctx, ""), ErrKeyEmpty)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.NoError(t, store.Set(ctx, "k", []byte("v")))
	assert.NoError(t, store.Delete(ctx, "k"))
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestMemoryStore_CopiesBlobs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	original := []byte("abc")
	assert.NoError(t, store.Set(ctx, "k", original))
	original[0] = 'x'

	value, err := store.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, []byte("abc"), value)

	// Mutating the returned slice must not affect the stored blob.
	value[0] = 'y'
	again, err := store.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryStore_PingAndClose(t *testing.T) {
	store := NewMemoryStore()
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close())
}
