package workinstructions

import "context"

// Repo defines persistence operations for the work instruction catalog.
type Repo interface {
	// FetchActive returns every active work instruction, in no particular order.
	FetchActive(ctx context.Context) ([]WorkInstruction, error)
	GetByID(ctx context.Context, id string) (WorkInstruction, error)
	List(ctx context.Context, filter ListFilter) ([]WorkInstruction, error)
	Create(ctx context.Context, wi WorkInstruction) error
	Update(ctx context.Context, wi WorkInstruction) error
	SetActive(ctx context.Context, id string, active bool) error
	SetFileKey(ctx context.Context, id, fileKey string) error
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
