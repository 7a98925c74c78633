package firms

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"legal-file-auditor/internal/cmsadapter"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const firmColumns = `id, name, contact_email, contact_phone, provider, api_url, api_key, api_secret, org_id, endpoints, active, created_at, updated_at, last_scanned_at`

// Create inserts a new firm.
func (r *PGRepo) Create(ctx context.Context, f Firm) error {
	const query = `
INSERT INTO firms (
    id,
    name,
    contact_email,
    contact_phone,
    provider,
    api_url,
    api_key,
    api_secret,
    org_id,
    endpoints,
    active,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	endpoints, err := encodeEndpoints(f.Endpoints)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(
		ctx,
		query,
		f.ID,
		f.Name,
		f.ContactEmail,
		f.ContactPhone,
		string(f.Provider),
		f.APIURL,
		f.APIKey,
		f.APISecret,
		f.OrgID,
		endpoints,
		f.Active,
		f.CreatedAt,
		f.UpdatedAt,
	)
	return err
}

// Get fetches a firm by id.
func (r *PGRepo) Get(ctx context.Context, id string) (Firm, error) {
	query := `SELECT ` + firmColumns + ` FROM firms WHERE id = $1`
	f, err := scanFirm(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Firm{}, ErrNotFound
	}
	return f, err
}

// List returns firms ordered newest-first.
func (r *PGRepo) List(ctx context.Context, activeOnly bool) ([]Firm, error) {
	query := `SELECT ` + firmColumns + ` FROM firms`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Firm
	for rows.Next() {
		f, err := scanFirm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Update overwrites the mutable columns of a firm.
func (r *PGRepo) Update(ctx context.Context, f Firm) error {
	const query = `
UPDATE firms
SET name = $2, contact_email = $3, contact_phone = $4, provider = $5, api_url = $6,
    api_key = $7, api_secret = $8, org_id = $9, endpoints = $10, active = $11, updated_at = $12
WHERE id = $1`

	endpoints, err := encodeEndpoints(f.Endpoints)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		f.ID, f.Name, f.ContactEmail, f.ContactPhone, string(f.Provider), f.APIURL,
		f.APIKey, f.APISecret, f.OrgID, endpoints, f.Active, f.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a firm; its audit logs cascade.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM firms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// MarkScanned records the completion time of the latest scan.
func (r *PGRepo) MarkScanned(ctx context.Context, id string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE firms SET last_scanned_at = $2, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFirm(row rowScanner) (Firm, error) {
	var f Firm
	var provider string
	var endpoints []byte
	var lastScanned sql.NullTime
	if err := row.Scan(
		&f.ID,
		&f.Name,
		&f.ContactEmail,
		&f.ContactPhone,
		&provider,
		&f.APIURL,
		&f.APIKey,
		&f.APISecret,
		&f.OrgID,
		&endpoints,
		&f.Active,
		&f.CreatedAt,
		&f.UpdatedAt,
		&lastScanned,
	); err != nil {
		return Firm{}, err
	}
	f.Provider = cmsadapter.Provider(provider)
	if len(endpoints) > 0 {
		var ep cmsadapter.Endpoints
		if err := json.Unmarshal(endpoints, &ep); err != nil {
			return Firm{}, fmt.Errorf("decode endpoints for firm %s: %w", f.ID, err)
		}
		f.Endpoints = &ep
	}
	if lastScanned.Valid {
		at := lastScanned.Time
		f.LastScannedAt = &at
	}
	return f, nil
}

func encodeEndpoints(ep *cmsadapter.Endpoints) (any, error) {
	if ep == nil {
		return nil, nil
	}
	raw, err := json.Marshal(ep)
	if err != nil {
		return nil, fmt.Errorf("encode endpoints: %w", err)
	}
	return raw, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
