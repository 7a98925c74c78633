// Package cmsadapter normalizes case and document data from third-party
// case-management systems into the canonical case model.
package cmsadapter

import (
	"context"

	"legal-file-auditor/internal/cases"
)

// Provider identifies a supported case-management system.
type Provider string

const (
	ProviderCasePeer        Provider = "casepeer"
	ProviderFilevine        Provider = "filevine"
	ProviderClio            Provider = "clio"
	ProviderMyCase          Provider = "mycase"
	ProviderPracticePanther Provider = "practicepanther"
	ProviderSmokeball       Provider = "smokeball"
	ProviderCustom          Provider = "custom"
)

// Endpoints are path templates for the generic adapter. CaseByID takes an
// {id} placeholder and Documents a {caseId} placeholder.
type Endpoints struct {
	Cases     string `json:"cases,omitempty" yaml:"cases"`
	CaseByID  string `json:"caseById,omitempty" yaml:"caseById"`
	Documents string `json:"documents,omitempty" yaml:"documents"`
}

// Config carries the decrypted connection settings for one firm.
type Config struct {
	Provider      Provider          `json:"provider"`
	APIURL        string            `json:"apiUrl"`
	APIKey        string            `json:"apiKey"`
	APISecret     string            `json:"apiSecret,omitempty"`
	OrgID         string            `json:"orgId,omitempty"`
	CustomHeaders map[string]string `json:"customHeaders,omitempty"`
	Endpoints     *Endpoints        `json:"endpoints,omitempty"`
}

// ConnectionResult reports the outcome of a connection test.
type ConnectionResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Adapter is implemented by every provider integration.
//
// GetCases and GetDocuments degrade to an empty result when the provider
// fails; the failure is logged. GetCase returns (nil, nil) when the provider
// reports the case does not exist.
type Adapter interface {
	Provider() Provider
	TestConnection(ctx context.Context) ConnectionResult
	GetCases(ctx context.Context) []cases.Case
	GetCase(ctx context.Context, id string) (*cases.Case, error)
	GetDocuments(ctx context.Context, caseID string) []cases.CaseDocument
}

// CaseLister is the strict form of GetCases.
type CaseLister interface {
	ListCases(ctx context.Context) ([]cases.Case, error)
}

// DocumentLister is the strict form of GetDocuments. Bulk scans use it to
// flag individual cases whose documents could not be fetched.
type DocumentLister interface {
	ListDocuments(ctx context.Context, caseID string) ([]cases.CaseDocument, error)
}
