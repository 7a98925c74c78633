package cmsadapter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-file-auditor/internal/cases"
)

func decodeRecord(t *testing.T, raw string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var rec map[string]any
	require.NoError(t, dec.Decode(&rec))
	return rec
}

func TestMapCaseClientNameFallsBackToSnakeCase(t *testing.T) {
	rec := decodeRecord(t, `{"id": "c-1", "client_name": "Maria Lopez"}`)
	c := mapCase(rec, genericCaseFields, genericDocumentFields, testNow)
	assert.Equal(t, "Maria Lopez", c.ClientName)
}

func TestMapCaseDefaults(t *testing.T) {
	rec := decodeRecord(t, `{"id": 17, "clientName": "   "}`)
	c := mapCase(rec, genericCaseFields, genericDocumentFields, testNow)

	assert.Equal(t, "17", c.ID)
	assert.Equal(t, "CASE-17", c.CaseNumber)
	assert.Equal(t, "Unknown Client", c.ClientName)
	assert.Equal(t, "Unassigned", c.AssignedAttorney)
	assert.Equal(t, cases.CaseTypeOther, c.CaseType)
	assert.Equal(t, cases.PhaseIntake, c.CurrentPhase)
	assert.Equal(t, testNow, c.DateOpened)
	assert.NotNil(t, c.Documents)
	assert.Empty(t, c.Documents)
}

func TestMapCaseNestedAndIndexedPaths(t *testing.T) {
	rec := decodeRecord(t, `{
		"projectId": {"native": 42},
		"contacts": [{"name": "First Contact"}, {"name": "Second"}],
		"assignedAttorney": {"name": "Pat Quinn"},
		"phase": {"name": "Pre-Lit Negotiation"}
	}`)
	c := mapCase(rec, filevineCaseFields, filevineDocumentFields, testNow)

	assert.Equal(t, "42", c.ID)
	assert.Equal(t, "FV-42", c.CaseNumber)
	assert.Equal(t, "First Contact", c.ClientName)
	assert.Equal(t, "Pat Quinn", c.AssignedAttorney)
	assert.Equal(t, cases.PhaseDemand, c.CurrentPhase)
}

func TestMapCaseObjectValuesAreSkipped(t *testing.T) {
	rec := decodeRecord(t, `{"id": "x", "attorney": {"name": "Lee Park"}}`)
	c := mapCase(rec, genericCaseFields, genericDocumentFields, testNow)
	assert.Equal(t, "Lee Park", c.AssignedAttorney)
}

func TestMapCaseInlineDocuments(t *testing.T) {
	rec := decodeRecord(t, `{"id": "p1", "documents": [{"document_id": 9, "file_name": "police.pdf", "file_size": "2048"}]}`)
	c := mapCase(rec, casePeerCaseFields, casePeerDocumentFields, testNow)

	require.Len(t, c.Documents, 1)
	assert.Equal(t, "9", c.Documents[0].ID)
	assert.Equal(t, "police.pdf", c.Documents[0].FileName)
	assert.EqualValues(t, 2048, c.Documents[0].FileSize)
	assert.Equal(t, cases.CaseTypeAutoAccident, c.CaseType)
}

func TestMapDocumentDefaultsAndClassification(t *testing.T) {
	rec := decodeRecord(t, `{"id": 3}`)
	doc := mapDocument(rec, genericDocumentFields, testNow)
	assert.Equal(t, "Untitled", doc.FileName)
	assert.Equal(t, "application/octet-stream", doc.MimeType)
	assert.False(t, doc.Classified())

	rec = decodeRecord(t, `{"id": 4, "name": "bills.pdf", "document_type": "medical_bills", "confidence": 0.62}`)
	doc = mapDocument(rec, genericDocumentFields, testNow)
	require.True(t, doc.Classified())
	assert.Equal(t, cases.DocMedicalBills, *doc.ClassifiedType)
	assert.InDelta(t, 0.62, *doc.AIConfidence, 1e-9)

	rec = decodeRecord(t, `{"id": 5, "documentType": "not_a_label"}`)
	assert.False(t, mapDocument(rec, genericDocumentFields, testNow).Classified())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want time.Time
	}{
		{"iso", "2024-05-06T07:08:09Z", time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)},
		{"date only", "2024-05-06", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
		{"us format", "05/06/2024", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
		{"epoch seconds", json.Number("1700000000"), time.Unix(1700000000, 0).UTC()},
		{"epoch millis", json.Number("1700000000123"), time.UnixMilli(1700000000123).UTC()},
		{"garbage", "not a date", testNow},
		{"missing", nil, testNow},
		{"object", map[string]any{}, testNow},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(parseDate(tt.in, testNow)), "got %v", parseDate(tt.in, testNow))
		})
	}
}

func TestUnwrapList(t *testing.T) {
	tests := map[string]string{
		"bare":     `[{"id":1},{"id":2}]`,
		"data":     `{"data":[{"id":1},{"id":2}]}`,
		"items":    `{"count":2,"items":[{"id":1},{"id":2}]}`,
		"results":  `{"results":[{"id":1},{"id":2}]}`,
		"cases":    `{"cases":[{"id":1},{"id":2}]}`,
		"projects": `{"projects":[{"id":1},{"id":2},"junk"]}`,
	}
	for name, raw := range tests {
		raw := raw
		t.Run(name, func(t *testing.T) {
			var v any
			require.NoError(t, json.Unmarshal([]byte(raw), &v))
			assert.Len(t, unwrapList(v), 2)
		})
	}

	var v any
	require.NoError(t, json.Unmarshal([]byte(`{"message":"ok"}`), &v))
	assert.Empty(t, unwrapList(v))
	assert.NotNil(t, unwrapList(nil))
}

func TestHasMore(t *testing.T) {
	var v any
	require.NoError(t, json.Unmarshal([]byte(`{"meta":{"has_more":false}}`), &v))
	more, ok := hasMore(v)
	assert.True(t, ok)
	assert.False(t, more)

	require.NoError(t, json.Unmarshal([]byte(`[]`), &v))
	_, ok = hasMore(v)
	assert.False(t, ok)
}
