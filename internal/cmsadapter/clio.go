package cmsadapter

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"legal-file-auditor/internal/cases"
)

const (
	clioMatterQuery    = "id,display_number,client,description,status,practice_area,open_date,close_date,responsible_attorney"
	clioDocumentQuery  = "id,name,created_at,size,content_type"
	clioMatterPageSize = "200"
	clioDocPageSize    = "500"
)

var clioCaseFields = caseFields{
	ID:              chain{"id"},
	CaseNumber:      chain{"display_number"},
	ClientName:      chain{"client.name"},
	CaseType:        chain{"practice_area.name", "description"},
	Phase:           chain{"status"},
	DateOfIncident:  chain{"open_date"},
	DateOpened:      chain{"open_date"},
	Attorney:        chain{"responsible_attorney.name"},
	NumberPrefix:    "CLIO",
	DefaultCaseType: cases.CaseTypeOther,
}

var clioDocumentFields = documentFields{
	ID:         chain{"id"},
	FileName:   chain{"name"},
	UploadDate: chain{"created_at"},
	FileSize:   chain{"size"},
	MimeType:   chain{"content_type"},
}

// Clio talks to Clio Manage v4. The access token is attached by an oauth2
// transport.
type Clio struct {
	core *httpCore
}

func newClio(cfg Config, base *http.Client, pageDelay time.Duration, now func() time.Time) *Clio {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})
	client := &http.Client{
		Timeout:   base.Timeout,
		Transport: &oauth2.Transport{Source: src, Base: base.Transport},
	}
	return &Clio{core: newHTTPCore(ProviderClio, cfg, client, pageDelay, now)}
}

func (a *Clio) Provider() Provider { return ProviderClio }

func (a *Clio) TestConnection(ctx context.Context) ConnectionResult {
	resp, err := a.core.get(ctx, "/matters?limit=1")
	if err != nil {
		return connectionFailed(err)
	}
	return ConnectionResult{
		Success: true,
		Message: "Successfully connected to Clio",
		Details: map[string]any{"casesFound": len(unwrapList(resp))},
	}
}

func (a *Clio) GetCases(ctx context.Context) []cases.Case {
	items, err := a.ListCases(ctx)
	return degrade(a.core, "list_cases", items, err, nil)
}

func (a *Clio) ListCases(ctx context.Context) ([]cases.Case, error) {
	params := url.Values{}
	params.Set("limit", clioMatterPageSize)
	params.Set("fields", clioMatterQuery)
	recs, err := a.follow(ctx, withQuery("/matters", params))
	if err != nil {
		return nil, err
	}
	return mapCases(recs, clioCaseFields, clioDocumentFields, a.core.now()), nil
}

func (a *Clio) GetCase(ctx context.Context, id string) (*cases.Case, error) {
	params := url.Values{}
	params.Set("fields", clioMatterQuery)
	resp, err := a.core.get(ctx, withQuery("/matters/"+url.PathEscape(id), params))
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
	c := mapCase(rec, clioCaseFields, clioDocumentFields, a.core.now())
	return &c, nil
}

func (a *Clio) GetDocuments(ctx context.Context, caseID string) []cases.CaseDocument {
	docs, err := a.ListDocuments(ctx, caseID)
	return degrade(a.core, "list_documents", docs, err, map[string]any{"case_id": caseID})
}

func (a *Clio) ListDocuments(ctx context.Context, caseID string) ([]cases.CaseDocument, error) {
	params := url.Values{}
	params.Set("matter_id", caseID)
	params.Set("limit", clioDocPageSize)
	params.Set("fields", clioDocumentQuery)
	recs, err := a.follow(ctx, withQuery("/documents", params))
	if err != nil {
		return nil, err
	}
	now := a.core.now()
	out := make([]cases.CaseDocument, 0, len(recs))
	for _, rec := range recs {
		out = append(out, mapDocument(rec, clioDocumentFields, now))
	}
	return out, nil
}

// follow reads {data: [...]} pages, continuing through meta.paging.next.
func (a *Clio) follow(ctx context.Context, first string) ([]map[string]any, error) {
	all := []map[string]any{}
	next := first
	for page := 0; page < maxPages && next != ""; page++ {
		if page > 0 {
			if err := a.core.pause(ctx); err != nil {
				return nil, err
			}
		}
		resp, err := a.core.get(ctx, next)
		if err != nil {
			return nil, err
		}
		all = append(all, unwrapList(resp)...)
		next = ""
		if rec, ok := resp.(map[string]any); ok {
			next = asString(lookup(rec, "meta.paging.next"))
		}
	}
	if next != "" {
		a.core.warnCapped(first, len(all))
	}
	return all, nil
}
