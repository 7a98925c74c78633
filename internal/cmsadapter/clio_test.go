package cmsadapter

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-file-auditor/internal/cases"
)

func TestClioFollowsPagingLinks(t *testing.T) {
	var srvURL string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer clio-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/matters", r.URL.Path)
		if r.URL.Query().Get("page_token") == "" {
			assert.Equal(t, clioMatterQuery, r.URL.Query().Get("fields"))
			writeJSON(w, http.StatusOK, `{"data": [{
				"id": 7,
				"display_number": "00007-Doe",
				"client": {"name": "Jane Doe"},
				"status": "Open",
				"practice_area": {"name": "Premises Liability"},
				"open_date": "2024-03-01",
				"responsible_attorney": {"name": "Sam Lee"}
			}], "meta": {"paging": {"next": "`+srvURL+`/matters?page_token=abc"}}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"data": [{"id": 8, "status": "Closed"}], "meta": {"paging": {}}}`)
	})
	srvURL = srv.URL

	got := newTestFactory().Create(Config{Provider: ProviderClio, APIURL: srv.URL, APIKey: "clio-token"}).GetCases(context.Background())
	require.Len(t, got, 2)

	assert.Equal(t, "7", got[0].ID)
	assert.Equal(t, "00007-Doe", got[0].CaseNumber)
	assert.Equal(t, "Jane Doe", got[0].ClientName)
	assert.Equal(t, "Sam Lee", got[0].AssignedAttorney)
	assert.Equal(t, cases.PhaseIntake, got[0].CurrentPhase)
	assert.Equal(t, cases.CaseTypePremisesLiability, got[0].CaseType)
	assert.Equal(t, got[0].DateOpened, got[0].DateOfIncident)

	assert.Equal(t, "CLIO-8", got[1].CaseNumber)
	assert.Equal(t, "Unknown Client", got[1].ClientName)
	assert.Equal(t, "Unassigned", got[1].AssignedAttorney)
	assert.Equal(t, cases.PhaseSettlement, got[1].CurrentPhase)
}

func TestClioRefusesForeignPagingHost(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data": [{"id": 1}], "meta": {"paging": {"next": "https://elsewhere.example.com/matters?page_token=x"}}}`)
	})
	a := newTestFactory().Create(Config{Provider: ProviderClio, APIURL: srv.URL, APIKey: "t"})

	_, err := a.(CaseLister).ListCases(context.Background())
	assert.ErrorContains(t, err, "foreign host")
	assert.Empty(t, a.GetCases(context.Background()))
}

func TestClioSingleMatterAndDocuments(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/matters/7":
			writeJSON(w, http.StatusOK, `{"data": {"id": 7, "client": {"name": "Jane Doe"}, "status": "Litigation"}}`)
		case "/documents":
			assert.Equal(t, "7", r.URL.Query().Get("matter_id"))
			assert.Equal(t, clioDocumentQuery, r.URL.Query().Get("fields"))
			assert.Equal(t, clioDocPageSize, r.URL.Query().Get("limit"))
			writeJSON(w, http.StatusOK, `{"data": [{"id": 90, "name": "Complaint.pdf", "size": 2048, "content_type": "application/pdf", "created_at": "2024-04-01T00:00:00Z"}]}`)
		default:
			writeJSON(w, http.StatusNotFound, `{"error": {"message": "not found"}}`)
		}
	})
	a := newTestFactory().Create(Config{Provider: ProviderClio, APIURL: srv.URL, APIKey: "t"})
	ctx := context.Background()

	c, err := a.GetCase(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, cases.PhaseLitigation, c.CurrentPhase)

	missing, err := a.GetCase(ctx, "8")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	docs := a.GetDocuments(ctx, "7")
	require.Len(t, docs, 1)
	assert.Equal(t, "90", docs[0].ID)
	assert.Equal(t, "Complaint.pdf", docs[0].FileName)
	assert.EqualValues(t, 2048, docs[0].FileSize)
}
