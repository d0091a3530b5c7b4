package feedback

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores feedback in memory.
type MemoryRepo struct {
	mu               sync.RWMutex
	byRecommendation map[string][]Feedback
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byRecommendation: make(map[string][]Feedback)}
}

// Create appends feedback.
func (r *MemoryRepo) Create(ctx context.Context, fb Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byRecommendation[fb.RecommendationID] = append(r.byRecommendation[fb.RecommendationID], fb)
	return nil
}

// ListByRecommendation returns feedback oldest first.
func (r *MemoryRepo) ListByRecommendation(ctx context.Context, recommendationID string) ([]Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := append([]Feedback(nil), r.byRecommendation[recommendationID]...)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// CountByRecommendation returns how many entries a recommendation has.
func (r *MemoryRepo) CountByRecommendation(ctx context.Context, recommendationID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byRecommendation[recommendationID]), nil
}

var _ Repo = (*MemoryRepo)(nil)
