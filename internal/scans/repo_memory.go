package scans

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]AuditLog
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]AuditLog)}
}

func (r *MemoryRepo) Create(ctx context.Context, l AuditLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[l.ID] = cloneLog(l)
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (AuditLog, error) {
	if err := ctx.Err(); err != nil {
		return AuditLog{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.data[id]
	if !ok {
		return AuditLog{}, ErrNotFound
	}
	return cloneLog(l), nil
}

func (r *MemoryRepo) Update(ctx context.Context, l AuditLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[l.ID]; !ok {
		return ErrNotFound
	}
	r.data[l.ID] = cloneLog(l)
	return nil
}

func (r *MemoryRepo) ListByFirm(ctx context.Context, firmID string, status Status, limit int) ([]AuditLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []AuditLog
	for _, l := range r.data {
		if l.FirmID != firmID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, cloneLog(l))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneLog(l AuditLog) AuditLog {
	if l.CompletedAt != nil {
		at := *l.CompletedAt
		l.CompletedAt = &at
	}
	return l
}

var _ Repo = (*MemoryRepo)(nil)
