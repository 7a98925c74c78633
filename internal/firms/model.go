package firms

import (
	"time"

	"legal-file-auditor/internal/cmsadapter"
)

// Firm is a law firm whose case-management system is audited. APIKey and
// APISecret are stored as given; encryption at rest belongs to the database
// or KMS layer.
type Firm struct {
	ID            string
	Name          string
	ContactEmail  string
	ContactPhone  string
	Provider      cmsadapter.Provider
	APIURL        string
	APIKey        string
	APISecret     string
	OrgID         string
	Endpoints     *cmsadapter.Endpoints
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastScannedAt *time.Time
}

// Config returns the adapter configuration for the firm.
func (f Firm) Config() cmsadapter.Config {
	cfg := cmsadapter.Config{
		Provider:  f.Provider,
		APIURL:    f.APIURL,
		APIKey:    f.APIKey,
		APISecret: f.APISecret,
		OrgID:     f.OrgID,
	}
	if f.Endpoints != nil {
		ep := *f.Endpoints
		cfg.Endpoints = &ep
	}
	return cfg
}
