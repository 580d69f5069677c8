package kv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/trackmystudy/study-hub/internal/domain/challenge"
	"github.com/trackmystudy/study-hub/internal/domain/shared"
	"github.com/trackmystudy/study-hub/internal/domain/userdata"
)

// ═══════════════════════════════════════════════════════════════════════════
// UserData Repository
// ═══════════════════════════════════════════════════════════════════════════

// UserDataRepository implements userdata.Repository over a Store.
type UserDataRepository struct {
	store Store
}

// NewUserDataRepository creates a repository bound to the userdata key.
func NewUserDataRepository(store Store) *UserDataRepository {
	return &UserDataRepository{store: store}
}

// Load reads and decodes the persisted aggregate. The blob is unmarshaled
// over the default template, so fields absent in an older stored schema keep
// their default values, and Normalize restores the structural invariants.
func (r *UserDataRepository) Load(ctx context.Context) (*userdata.UserData, error) {
	blob, err := r.store.Get(ctx, KeyUserData)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, shared.ErrBlobNotFound
		}
		return nil, shared.WrapError("storage", "Load", shared.ErrStorage, "reading userdata blob", err)
	}

	data := userdata.Default()
	if err := json.Unmarshal(blob, data); err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrSerialization, "decoding userdata blob", err)
	}
	data.Normalize()
	return data, nil
}

// Save encodes and overwrites the persisted aggregate wholesale.
func (r *UserDataRepository) Save(ctx context.Context, data *userdata.UserData) error {
	blob, err := json.Marshal(data)
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrSerialization, "encoding userdata blob", err)
	}
	if err := r.store.Set(ctx, KeyUserData, blob); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorage, "writing userdata blob", err)
	}
	return nil
}

// Delete removes the persisted aggregate.
func (r *UserDataRepository) Delete(ctx context.Context) error {
	if err := r.store.Delete(ctx, KeyUserData); err != nil {
		return shared.WrapError("storage", "Delete", shared.ErrStorage, "deleting userdata blob", err)
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Challenge Repository
// ═══════════════════════════════════════════════════════════════════════════

// ChallengeRepository implements challenge.Repository over a Store.
type ChallengeRepository struct {
	store Store
}

// NewChallengeRepository creates a repository bound to the challenge key.
func NewChallengeRepository(store Store) *ChallengeRepository {
	return &ChallengeRepository{store: store}
}

// Load reads and decodes the persisted challenge.
func (r *ChallengeRepository) Load(ctx context.Context) (*challenge.Challenge, error) {
	blob, err := r.store.Get(ctx, KeyChallenge)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, shared.ErrBlobNotFound
		}
		return nil, shared.WrapError("storage", "Load", shared.ErrStorage, "reading challenge blob", err)
	}

	var c challenge.Challenge
	if err := json.Unmarshal(blob, &c); err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrSerialization, "decoding challenge blob", err)
	}
	return &c, nil
}

// Save encodes and overwrites the persisted challenge wholesale.
func (r *ChallengeRepository) Save(ctx context.Context, c *challenge.Challenge) error {
	blob, err := json.Marshal(c)
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrSerialization, "encoding challenge blob", err)
	}
	if err := r.store.Set(ctx, KeyChallenge, blob); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorage, "writing challenge blob", err)
	}
	return nil
}

// Delete removes the persisted challenge.
func (r *ChallengeRepository) Delete(ctx context.Context) error {
	if err := r.store.Delete(ctx, KeyChallenge); err != nil {
		return shared.WrapError("storage", "Delete", shared.ErrStorage, "deleting challenge blob", err)
	}
	return nil
}
