package steeltypes

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo stores steel types in memory.
type MemoryRepo struct {
	mu     sync.RWMutex
	byCode map[string]SteelType
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byCode: make(map[string]SteelType)}
}

// Create stores a steel type. Codes are unique regardless of case.
func (r *MemoryRepo) Create(ctx context.Context, st SteelType) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := strings.ToLower(st.Code)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[key]; ok {
		return ErrConflict
	}
	r.byCode[key] = st
	return nil
}

// List returns steel types ordered by code.
func (r *MemoryRepo) List(ctx context.Context, category string) ([]SteelType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]SteelType, 0, len(r.byCode))
	for _, st := range r.byCode {
		if category != "" && !strings.EqualFold(st.Category, category) {
			continue
		}
		out = append(out, st)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// FindIDByCode returns the ID registered for code.
func (r *MemoryRepo) FindIDByCode(ctx context.Context, code string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.byCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return "", ErrNotFound
	}
	return st.ID, nil
}

// Delete removes the steel type with the given ID.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, st := range r.byCode {
		if st.ID == id {
			delete(r.byCode, key)
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
