package firms

import (
	"context"
	"time"
)

// Repo defines persistence operations for firms.
type Repo interface {
	Create(ctx context.Context, f Firm) error
	Get(ctx context.Context, id string) (Firm, error)
	// List returns firms newest first.
	List(ctx context.Context, activeOnly bool) ([]Firm, error)
	Update(ctx context.Context, f Firm) error
	Delete(ctx context.Context, id string) error
	MarkScanned(ctx context.Context, id string, at time.Time) error
}
