package firms

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Firm
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Firm)}
}

func (r *MemoryRepo) Create(ctx context.Context, f Firm) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[f.ID] = clone(f)
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Firm, error) {
	if err := ctx.Err(); err != nil {
		return Firm{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.data[id]
	if !ok {
		return Firm{}, ErrNotFound
	}
	return clone(f), nil
}

func (r *MemoryRepo) List(ctx context.Context, activeOnly bool) ([]Firm, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Firm, 0, len(r.data))
	for _, f := range r.data {
		if activeOnly && !f.Active {
			continue
		}
		out = append(out, clone(f))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, f Firm) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[f.ID]; !ok {
		return ErrNotFound
	}
	r.data[f.ID] = clone(f)
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *MemoryRepo) MarkScanned(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	f.LastScannedAt = &at
	f.UpdatedAt = at
	r.data[id] = f
	return nil
}

func clone(f Firm) Firm {
	if f.Endpoints != nil {
		ep := *f.Endpoints
		f.Endpoints = &ep
	}
	if f.LastScannedAt != nil {
		at := *f.LastScannedAt
		f.LastScannedAt = &at
	}
	return f
}

var _ Repo = (*MemoryRepo)(nil)
