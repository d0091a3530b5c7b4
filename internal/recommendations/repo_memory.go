package recommendations

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo stores recommendations in memory. Instructions and Feedback are
// optional; when set, reads carry the work instruction title, treatment type
// and feedback count the way the Postgres joins do.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Recommendation

	Instructions WorkInstructionGetter
	Feedback     FeedbackCounter
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Recommendation)}
}

// Insert stores a recommendation.
func (r *MemoryRepo) Insert(ctx context.Context, rec Recommendation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rec.ID] = rec
	return nil
}

// GetByID returns a recommendation by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return Recommendation{}, err
	}
	r.mu.RLock()
	rec, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return Recommendation{}, ErrNotFound
	}
	return r.withDetails(ctx, rec), nil
}

// List returns recommendations newest first.
func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset := clampPage(filter.Limit, filter.Offset)

	r.mu.RLock()
	matched := make([]Recommendation, 0, len(r.items))
	for _, rec := range r.items {
		if !matchesFold(rec.SteelCode, filter.SteelCode) ||
			!matchesFold(rec.ClientName, filter.ClientName) ||
			!matchesFold(rec.UserName, filter.UserName) {
			continue
		}
		matched = append(matched, rec)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	if offset >= len(matched) {
		return []Recommendation{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	page := matched[offset:end]
	for i := range page {
		page[i] = r.withDetails(ctx, page[i])
	}
	return page, nil
}

// withDetails mirrors a LEFT JOIN: lookups that fail leave the fields blank.
func (r *MemoryRepo) withDetails(ctx context.Context, rec Recommendation) Recommendation {
	if r.Instructions != nil {
		if wi, err := r.Instructions.GetByID(ctx, rec.WorkInstructionID); err == nil {
			rec.WorkInstructionTitle = wi.Title
			rec.TreatmentType = wi.TreatmentType
		}
	}
	if r.Feedback != nil {
		if n, err := r.Feedback.CountByRecommendation(ctx, rec.ID); err == nil {
			rec.FeedbackCount = n
		}
	}
	return rec
}

func matchesFold(value, filter string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || strings.EqualFold(value, filter)
}

var _ Repo = (*MemoryRepo)(nil)
