package userdata

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Контракт хранения агрегата. Реализации находятся в
// infrastructure/persistence и работают поверх key-value стора.
// ══════════════════════════════════════════════════════════════════════════════

// Repository persists the UserData aggregate as a single blob.
type Repository interface {
	// Load reads the persisted aggregate.
	// Возвращает shared.ErrBlobNotFound, если блоб отсутствует, и
	// shared.ErrBlobCorrupt, если блоб не декодируется.
	Load(ctx context.Context) (*UserData, error)

	// Save overwrites the persisted aggregate wholesale.
	Save(ctx context.Context, data *UserData) error

	// Delete removes the persisted aggregate.
	Delete(ctx context.Context) error
}
