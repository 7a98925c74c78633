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
	filevineProjectPageSize = 100
	filevineDocPageSize     = 500
)

var filevineCaseFields = caseFields{
	ID:              chain{"projectId.native", "projectId", "id"},
	CaseNumber:      chain{"caseNumber", "projectNumber", "fileNumber"},
	ClientName:      chain{"clientName", "client.name", "contacts.0.name", "projectName"},
	CaseType:        chain{"projectType.name", "caseType", "practiceArea"},
	Phase:           chain{"phase.name", "phaseName", "status", "stage"},
	DateOfIncident:  chain{"incidentDate", "dateOfLoss", "dateOfIncident"},
	DateOpened:      chain{"createdAt", "createdDate", "dateOpened", "openedDate"},
	Attorney:        chain{"assignedAttorney.name", "attorney", "leadAttorney", "firstPrimaryName"},
	NumberPrefix:    "FV",
	DefaultCaseType: cases.CaseTypeOther,
}

var filevineDocumentFields = documentFields{
	ID:         chain{"documentId.native", "documentId", "id"},
	FileName:   chain{"filename", "fileName", "name"},
	UploadDate: chain{"createdAt", "uploadDate", "dateCreated"},
	FileSize:   chain{"size", "fileSize", "length"},
	MimeType:   chain{"mimeType", "contentType"},
	URL:        chain{"downloadUrl", "url"},
}

// Filevine talks to the Filevine v2 API. With an API secret it sends the
// key, secret and org headers; otherwise a bearer token plus the org header.
type Filevine struct {
	core *httpCore
}

func newFilevine(cfg Config, client *http.Client, pageDelay time.Duration, now func() time.Time) *Filevine {
	core := newHTTPCore(ProviderFilevine, cfg, client, pageDelay, now)
	if cfg.APISecret != "" {
		core.setAuth("x-fv-apikey", cfg.APIKey)
		core.setAuth("x-fv-apisecret", cfg.APISecret)
	} else {
		core.setAuth("Authorization", "Bearer "+cfg.APIKey)
	}
	core.setAuth("x-fv-orgid", cfg.OrgID)
	return &Filevine{core: core}
}

func (a *Filevine) Provider() Provider { return ProviderFilevine }

func (a *Filevine) TestConnection(ctx context.Context) ConnectionResult {
	resp, err := a.core.get(ctx, "/core/projects?limit=1")
	if err != nil {
		return connectionFailed(err)
	}
	found := len(unwrapList(resp))
	if rec, ok := resp.(map[string]any); ok {
		if n, ok := asFloat(rec["count"]); ok && n > 0 {
			found = int(n)
		}
	}
	return ConnectionResult{
		Success: true,
		Message: "Successfully connected to Filevine",
		Details: map[string]any{"casesFound": found, "apiVersion": "v2"},
	}
}

func (a *Filevine) GetCases(ctx context.Context) []cases.Case {
	items, err := a.ListCases(ctx)
	return degrade(a.core, "list_cases", items, err, nil)
}

func (a *Filevine) ListCases(ctx context.Context) ([]cases.Case, error) {
	recs, err := a.paginate(ctx, "/core/projects", filevineProjectPageSize)
	if err != nil {
		return nil, err
	}
	return mapCases(recs, filevineCaseFields, filevineDocumentFields, a.core.now()), nil
}

func (a *Filevine) GetCase(ctx context.Context, id string) (*cases.Case, error) {
	resp, err := a.core.get(ctx, "/core/projects/"+url.PathEscape(id))
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
	c := mapCase(rec, filevineCaseFields, filevineDocumentFields, a.core.now())
	return &c, nil
}

func (a *Filevine) GetDocuments(ctx context.Context, caseID string) []cases.CaseDocument {
	docs, err := a.ListDocuments(ctx, caseID)
	return degrade(a.core, "list_documents", docs, err, map[string]any{"case_id": caseID})
}

func (a *Filevine) ListDocuments(ctx context.Context, caseID string) ([]cases.CaseDocument, error) {
	recs, err := a.paginate(ctx, "/core/projects/"+url.PathEscape(caseID)+"/documents", filevineDocPageSize)
	if err != nil {
		return nil, err
	}
	now := a.core.now()
	out := make([]cases.CaseDocument, 0, len(recs))
	for _, rec := range recs {
		out = append(out, mapDocument(rec, filevineDocumentFields, now))
	}
	return out, nil
}

// paginate walks offset/limit pages using the hasMore flag Filevine returns
// alongside {count, items}.
func (a *Filevine) paginate(ctx context.Context, path string, limit int) ([]map[string]any, error) {
	all := []map[string]any{}
	offset := 0
	for page := 0; page < maxPages; page++ {
		if page > 0 {
			if err := a.core.pause(ctx); err != nil {
				return nil, err
			}
		}
		params := url.Values{}
		params.Set("limit", strconv.Itoa(limit))
		params.Set("offset", strconv.Itoa(offset))
		resp, err := a.core.get(ctx, withQuery(path, params))
		if err != nil {
			return nil, err
		}
		batch := unwrapList(resp)
		all = append(all, batch...)
		offset += len(batch)
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
