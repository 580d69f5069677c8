package challenge

import "context"

// Repository persists the Challenge aggregate as a single blob.
// Реализации находятся в infrastructure/persistence.
type Repository interface {
	// Load reads the persisted challenge.
	// Возвращает shared.ErrBlobNotFound, если челлендж не запущен.
	Load(ctx context.Context) (*Challenge, error)

	// Save overwrites the persisted challenge wholesale.
	Save(ctx context.Context, c *Challenge) error

	// Delete removes the persisted challenge (manual reset).
	Delete(ctx context.Context) error
}
