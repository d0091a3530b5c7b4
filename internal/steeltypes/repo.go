package steeltypes

import "context"

// Repo defines persistence operations for steel types.
type Repo interface {
	Create(ctx context.Context, st SteelType) error
	// List returns steel types ordered by code. An empty category lists all.
	List(ctx context.Context, category string) ([]SteelType, error)
	// FindIDByCode looks a code up case-insensitively and returns ErrNotFound when absent.
	FindIDByCode(ctx context.Context, code string) (string, error)
	// Delete removes a steel type by ID and returns ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}
