package scans

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const logColumns = `id, firm_id, scan_type, status, case_id, cases_scanned, documents_analyzed, critical_missing, required_missing, average_score, error_message, report_key, started_at, completed_at`

// Create inserts a new audit log.
func (r *PGRepo) Create(ctx context.Context, l AuditLog) error {
	const query = `
INSERT INTO audit_logs (
    id,
    firm_id,
    scan_type,
    status,
    case_id,
    cases_scanned,
    documents_analyzed,
    critical_missing,
    required_missing,
    average_score,
    error_message,
    report_key,
    started_at,
    completed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.DB.ExecContext(ctx, query,
		l.ID,
		l.FirmID,
		string(l.ScanType),
		string(l.Status),
		l.CaseID,
		l.CasesScanned,
		l.DocumentsAnalyzed,
		l.CriticalMissing,
		l.RequiredMissing,
		l.AverageScore,
		l.ErrorMessage,
		l.ReportKey,
		l.StartedAt,
		nullTime(l),
	)
	return err
}

// Get fetches an audit log by id.
func (r *PGRepo) Get(ctx context.Context, id string) (AuditLog, error) {
	query := `SELECT ` + logColumns + ` FROM audit_logs WHERE id = $1`
	l, err := scanLog(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return AuditLog{}, ErrNotFound
	}
	return l, err
}

// Update stores the counters and outcome of a scan.
func (r *PGRepo) Update(ctx context.Context, l AuditLog) error {
	const query = `
UPDATE audit_logs
SET status = $2, cases_scanned = $3, documents_analyzed = $4, critical_missing = $5,
    required_missing = $6, average_score = $7, error_message = $8, report_key = $9, completed_at = $10
WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query,
		l.ID,
		string(l.Status),
		l.CasesScanned,
		l.DocumentsAnalyzed,
		l.CriticalMissing,
		l.RequiredMissing,
		l.AverageScore,
		l.ErrorMessage,
		l.ReportKey,
		nullTime(l),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByFirm lists a firm's logs ordered newest-first.
func (r *PGRepo) ListByFirm(ctx context.Context, firmID string, status Status, limit int) ([]AuditLog, error) {
	query := `SELECT ` + logColumns + ` FROM audit_logs WHERE firm_id = $1 AND ($2 = '' OR status = $2) ORDER BY started_at DESC, id DESC`
	args := []any{firmID, string(status)}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (AuditLog, error) {
	var l AuditLog
	var scanType, status string
	var completed sql.NullTime
	if err := row.Scan(
		&l.ID,
		&l.FirmID,
		&scanType,
		&status,
		&l.CaseID,
		&l.CasesScanned,
		&l.DocumentsAnalyzed,
		&l.CriticalMissing,
		&l.RequiredMissing,
		&l.AverageScore,
		&l.ErrorMessage,
		&l.ReportKey,
		&l.StartedAt,
		&completed,
	); err != nil {
		return AuditLog{}, err
	}
	l.ScanType = ScanType(scanType)
	l.Status = Status(status)
	if completed.Valid {
		at := completed.Time
		l.CompletedAt = &at
	}
	return l, nil
}

func nullTime(l AuditLog) sql.NullTime {
	if l.CompletedAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *l.CompletedAt, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
