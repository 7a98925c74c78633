package scans

import "context"

// Repo defines persistence operations for audit logs.
type Repo interface {
	Create(ctx context.Context, l AuditLog) error
	Get(ctx context.Context, id string) (AuditLog, error)
	Update(ctx context.Context, l AuditLog) error
	// ListByFirm returns the firm's logs newest first. An empty status
	// matches every status; limit <= 0 means no limit.
	ListByFirm(ctx context.Context, firmID string, status Status, limit int) ([]AuditLog, error)
}
