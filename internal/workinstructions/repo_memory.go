package workinstructions

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo stores work instructions in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]WorkInstruction
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]WorkInstruction)}
}

// FetchActive returns copies of all active work instructions.
func (r *MemoryRepo) FetchActive(ctx context.Context) ([]WorkInstruction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]WorkInstruction, 0, len(r.byID))
	for _, wi := range r.byID {
		if wi.Active {
			out = append(out, clone(wi))
		}
	}
	return out, nil
}

// GetByID returns a work instruction by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (WorkInstruction, error) {
	if err := ctx.Err(); err != nil {
		return WorkInstruction{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	wi, ok := r.byID[id]
	if !ok {
		return WorkInstruction{}, ErrNotFound
	}
	return clone(wi), nil
}

// List returns work instructions ordered by IT code.
func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]WorkInstruction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset := clampPage(filter.Limit, filter.Offset)
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	r.mu.RLock()
	matched := make([]WorkInstruction, 0, len(r.byID))
	for _, wi := range r.byID {
		if filter.Active != nil && wi.Active != *filter.Active {
			continue
		}
		if filter.TreatmentType != "" && !strings.EqualFold(wi.TreatmentType, filter.TreatmentType) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(wi.ITCode), search) && !strings.Contains(strings.ToLower(wi.Title), search) {
			continue
		}
		matched = append(matched, clone(wi))
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ITCode < matched[j].ITCode
	})
	if offset >= len(matched) {
		return []WorkInstruction{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// Create stores a new work instruction.
func (r *MemoryRepo) Create(ctx context.Context, wi WorkInstruction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.itCodeTaken(wi.ITCode, wi.ID) {
		return ErrConflict
	}
	r.byID[wi.ID] = clone(wi)
	return nil
}

// Update replaces an existing work instruction, keeping its creation time.
func (r *MemoryRepo) Update(ctx context.Context, wi WorkInstruction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[wi.ID]
	if !ok {
		return ErrNotFound
	}
	if r.itCodeTaken(wi.ITCode, wi.ID) {
		return ErrConflict
	}
	wi.CreatedAt = existing.CreatedAt
	r.byID[wi.ID] = clone(wi)
	return nil
}

// SetActive toggles whether the work instruction is offered as a candidate.
func (r *MemoryRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.mutate(ctx, id, func(wi *WorkInstruction) {
		wi.Active = active
	})
}

// SetFileKey records the attachment storage key.
func (r *MemoryRepo) SetFileKey(ctx context.Context, id, fileKey string) error {
	return r.mutate(ctx, id, func(wi *WorkInstruction) {
		wi.FileKey = fileKey
	})
}

func (r *MemoryRepo) mutate(ctx context.Context, id string, fn func(*WorkInstruction)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	wi, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	fn(&wi)
	wi.UpdatedAt = time.Now().UTC()
	r.byID[id] = wi
	return nil
}

func (r *MemoryRepo) itCodeTaken(itCode, exceptID string) bool {
	for id, wi := range r.byID {
		if id != exceptID && wi.ITCode == itCode {
			return true
		}
	}
	return false
}

func clone(wi WorkInstruction) WorkInstruction {
	wi.ApplicableSteels = append([]string(nil), wi.ApplicableSteels...)
	wi.Temperature = cloneRange(wi.Temperature)
	wi.Duration = cloneRange(wi.Duration)
	wi.HardnessInput = cloneRange(wi.HardnessInput)
	wi.HardnessOutput = cloneRange(wi.HardnessOutput)
	return wi
}

func cloneRange(r *Range) *Range {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

var _ Repo = (*MemoryRepo)(nil)
