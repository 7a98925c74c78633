package cmsadapter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"legal-file-auditor/internal/cases"
)

const (
	casePeerCasePageSize = 100
	casePeerDocPageSize  = 50
)

var casePeerCaseFields = caseFields{
	ID:              chain{"id", "case_id"},
	CaseNumber:      chain{"case_number", "caseNumber"},
	ClientName:      chain{"client_name", "clientName", "client.name"},
	CaseType:        chain{"case_type", "caseType"},
	Phase:           chain{"current_phase", "phase", "status"},
	DateOfIncident:  chain{"incident_date", "dateOfIncident"},
	DateOpened:      chain{"opened_date", "dateOpened"},
	Attorney:        chain{"attorney", "assignedAttorney", "attorney.name"},
	Documents:       chain{"documents"},
	NumberPrefix:    "CP",
	DefaultCaseType: cases.CaseTypeAutoAccident,
}

var casePeerDocumentFields = documentFields{
	ID:         chain{"id", "document_id"},
	FileName:   chain{"file_name", "fileName"},
	UploadDate: chain{"upload_date", "uploadDate"},
	FileSize:   chain{"file_size", "fileSize"},
	MimeType:   chain{"mime_type", "mimeType"},
	URL:        chain{"url", "download_url"},
}

// CasePeer talks to the CasePeer REST API with bearer auth.
type CasePeer struct {
	core *httpCore
}

func newCasePeer(cfg Config, client *http.Client, pageDelay time.Duration, now func() time.Time) *CasePeer {
	core := newHTTPCore(ProviderCasePeer, cfg, client, pageDelay, now)
	core.setAuth("Authorization", "Bearer "+cfg.APIKey)
	return &CasePeer{core: core}
}

func (a *CasePeer) Provider() Provider { return ProviderCasePeer }

func (a *CasePeer) TestConnection(ctx context.Context) ConnectionResult {
	resp, err := a.core.get(ctx, "/cases?limit=1")
	if err != nil {
		return connectionFailed(err)
	}
	return ConnectionResult{
		Success: true,
		Message: "Successfully connected to CasePeer",
		Details: map[string]any{"casesFound": len(unwrapList(resp))},
	}
}

func (a *CasePeer) GetCases(ctx context.Context) []cases.Case {
	items, err := a.ListCases(ctx)
	return degrade(a.core, "list_cases", items, err, nil)
}

func (a *CasePeer) ListCases(ctx context.Context) ([]cases.Case, error) {
	recs, err := a.paginate(ctx, "/cases", casePeerCasePageSize)
	if err != nil {
		return nil, err
	}
	return mapCases(recs, casePeerCaseFields, casePeerDocumentFields, a.core.now()), nil
}

func (a *CasePeer) GetCase(ctx context.Context, id string) (*cases.Case, error) {
	resp, err := a.core.get(ctx, "/cases/"+url.PathEscape(id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	rec, ok := unwrapRecord(resp)
	if !ok {
		return nil, nil
	}
	c := mapCase(rec, casePeerCaseFields, casePeerDocumentFields, a.core.now())
	return &c, nil
}

func (a *CasePeer) GetDocuments(ctx context.Context, caseID string) []cases.CaseDocument {
	docs, err := a.ListDocuments(ctx, caseID)
	return degrade(a.core, "list_documents", docs, err, map[string]any{"case_id": caseID})
}

func (a *CasePeer) ListDocuments(ctx context.Context, caseID string) ([]cases.CaseDocument, error) {
	recs, err := a.paginate(ctx, "/cases/"+url.PathEscape(caseID)+"/documents", casePeerDocPageSize)
	if err != nil {
		return nil, err
	}
	now := a.core.now()
	out := make([]cases.CaseDocument, 0, len(recs))
	for _, rec := range recs {
		out = append(out, mapDocument(rec, casePeerDocumentFields, now))
	}
	return out, nil
}

// paginate walks page/limit pages until a short page, hasMore=false or the
// page cap.
func (a *CasePeer) paginate(ctx context.Context, path string, limit int) ([]map[string]any, error) {
	all := []map[string]any{}
	for page := 1; page <= maxPages; page++ {
		if page > 1 {
			if err := a.core.pause(ctx); err != nil {
				return nil, err
			}
		}
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("limit", strconv.Itoa(limit))
		resp, err := a.core.get(ctx, withQuery(path, params))
		if err != nil {
			return nil, err
		}
		batch := unwrapList(resp)
		all = append(all, batch...)
		more, ok := hasMore(resp)
		if !ok {
			more = len(batch) == limit
		}
		if !more || len(batch) == 0 {
			return all, nil
		}
	}
	a.core.warnCapped(path, len(all))
	return all, nil
}
