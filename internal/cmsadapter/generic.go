package cmsadapter

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"legal-file-auditor/internal/cases"
)

var defaultEndpoints = Endpoints{
	Cases:     "/cases",
	CaseByID:  "/cases/{id}",
	Documents: "/cases/{caseId}/documents",
}

var genericCaseFields = caseFields{
	ID:         chain{"id", "caseId", "case_id", "projectId", "matterId"},
	CaseNumber: chain{"caseNumber", "case_number", "number", "fileNumber", "file_number", "display_number"},
	ClientName: chain{"clientName", "client_name", "client.name", "contact.name", "plaintiff", "claimant"},
	CaseType:   chain{"caseType", "case_type", "type", "practiceArea", "practice_area", "practice_area.name", "category"},
	Phase:      chain{"status", "phase", "stage", "currentPhase", "current_phase"},
	DateOfIncident: chain{
		"dateOfIncident", "date_of_incident", "incidentDate", "incident_date",
		"dateOfLoss", "date_of_loss", "accidentDate",
		"dateOpened", "date_opened", "openedDate", "opened_date", "createdAt", "created_at", "openDate", "open_date",
	},
	DateOpened: chain{"dateOpened", "date_opened", "openedDate", "opened_date", "createdAt", "created_at", "openDate", "open_date"},
	Attorney: chain{
		"assignedAttorney", "assigned_attorney", "attorney", "responsibleAttorney",
		"responsible_attorney.name", "attorney.name", "leadAttorney",
	},
	Documents:       chain{"documents"},
	NumberPrefix:    "CASE",
	DefaultCaseType: cases.CaseTypeOther,
}

var genericDocumentFields = documentFields{
	ID:             chain{"id", "documentId", "document_id", "fileId", "file_id"},
	FileName:       chain{"fileName", "file_name", "filename", "name", "title"},
	UploadDate:     chain{"uploadDate", "upload_date", "uploadedAt", "createdAt", "created_at", "dateCreated", "date_created"},
	FileSize:       chain{"fileSize", "file_size", "size", "bytes", "contentLength"},
	MimeType:       chain{"mimeType", "mime_type", "contentType", "content_type", "type"},
	URL:            chain{"url", "downloadUrl", "download_url", "fileUrl", "file_url"},
	ClassifiedType: chain{"classifiedType", "classified_type", "documentType", "document_type"},
	Confidence:     chain{"aiConfidence", "ai_confidence", "confidence"},
}

// Generic drives any REST API that follows common conventions through a set
// of endpoint templates. It authenticates with a bearer token.
type Generic struct {
	core      *httpCore
	provider  Provider
	name      string
	endpoints Endpoints
}

func newGeneric(provider Provider, name string, endpoints Endpoints, cfg Config, client *http.Client, pageDelay time.Duration, now func() time.Time) *Generic {
	core := newHTTPCore(provider, cfg, client, pageDelay, now)
	core.setAuth("Authorization", "Bearer "+cfg.APIKey)
	return &Generic{
		core:      core,
		provider:  provider,
		name:      name,
		endpoints: endpoints,
	}
}

// mergeEndpoints fills every empty template from the fallback set.
func mergeEndpoints(primary *Endpoints, fallback Endpoints) Endpoints {
	out := fallback
	if primary == nil {
		return out
	}
	if v := strings.TrimSpace(primary.Cases); v != "" {
		out.Cases = v
	}
	if v := strings.TrimSpace(primary.CaseByID); v != "" {
		out.CaseByID = v
	}
	if v := strings.TrimSpace(primary.Documents); v != "" {
		out.Documents = v
	}
	return out
}

func (a *Generic) Provider() Provider { return a.provider }

// Endpoints returns the templates the adapter resolved.
func (a *Generic) Endpoints() Endpoints { return a.endpoints }

func (a *Generic) TestConnection(ctx context.Context) ConnectionResult {
	params := url.Values{}
	params.Set("limit", "1")
	resp, err := a.core.get(ctx, withQuery(a.endpoints.Cases, params))
	if err != nil {
		return connectionFailed(err)
	}
	return ConnectionResult{
		Success: true,
		Message: "Successfully connected to " + a.name,
		Details: map[string]any{"casesFound": len(unwrapList(resp))},
	}
}

func (a *Generic) GetCases(ctx context.Context) []cases.Case {
	items, err := a.ListCases(ctx)
	return degrade(a.core, "list_cases", items, err, nil)
}

func (a *Generic) ListCases(ctx context.Context) ([]cases.Case, error) {
	resp, err := a.core.get(ctx, a.endpoints.Cases)
	if err != nil {
		return nil, err
	}
	return mapCases(unwrapList(resp), genericCaseFields, genericDocumentFields, a.core.now()), nil
}

func (a *Generic) GetCase(ctx context.Context, id string) (*cases.Case, error) {
	path := strings.ReplaceAll(a.endpoints.CaseByID, "{id}", url.PathEscape(id))
	resp, err := a.core.get(ctx, path)
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
	c := mapCase(rec, genericCaseFields, genericDocumentFields, a.core.now())
	return &c, nil
}

func (a *Generic) GetDocuments(ctx context.Context, caseID string) []cases.CaseDocument {
	docs, err := a.ListDocuments(ctx, caseID)
	return degrade(a.core, "list_documents", docs, err, map[string]any{"case_id": caseID})
}

func (a *Generic) ListDocuments(ctx context.Context, caseID string) ([]cases.CaseDocument, error) {
	escaped := url.PathEscape(caseID)
	path := strings.ReplaceAll(a.endpoints.Documents, "{caseId}", escaped)
	path = strings.ReplaceAll(path, "{id}", escaped)
	resp, err := a.core.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return mapDocuments(resp, genericDocumentFields, a.core.now()), nil
}
