package cmsadapter

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"legal-file-auditor/internal/cases"
)

const (
	defaultClientName = "Unknown Client"
	defaultAttorney   = "Unassigned"
	defaultFileName   = "Untitled"
	defaultMimeType   = "application/octet-stream"
)

// chain is an ordered list of candidate key paths. Paths are dotted and may
// index into arrays, e.g. "contacts.0.name". The first non-empty value wins.
type chain []string

// caseFields is a provider's mapping from raw case records to cases.Case.
type caseFields struct {
	ID              chain
	CaseNumber      chain
	ClientName      chain
	CaseType        chain
	Phase           chain
	DateOfIncident  chain
	DateOpened      chain
	Attorney        chain
	Documents       chain
	NumberPrefix    string
	DefaultCaseType cases.CaseType
}

// documentFields is a provider's mapping from raw documents to cases.CaseDocument.
type documentFields struct {
	ID             chain
	FileName       chain
	UploadDate     chain
	FileSize       chain
	MimeType       chain
	URL            chain
	ClassifiedType chain
	Confidence     chain
}

func mapCase(rec map[string]any, f caseFields, docFields documentFields, now time.Time) cases.Case {
	id := firstString(rec, f.ID)
	number := firstString(rec, f.CaseNumber)
	if number == "" {
		number = f.NumberPrefix + "-" + id
	}
	defType := f.DefaultCaseType
	if defType == "" {
		defType = cases.CaseTypeOther
	}

	docs := []cases.CaseDocument{}
	if raw := firstValue(rec, f.Documents); raw != nil {
		docs = mapDocuments(raw, docFields, now)
	}

	return cases.Case{
		ID:               id,
		CaseNumber:       number,
		ClientName:       orDefault(firstString(rec, f.ClientName), defaultClientName),
		CaseType:         NormalizeCaseType(firstString(rec, f.CaseType), defType),
		CurrentPhase:     NormalizePhase(firstString(rec, f.Phase)),
		DateOfIncident:   parseDate(firstValue(rec, f.DateOfIncident), now),
		DateOpened:       parseDate(firstValue(rec, f.DateOpened), now),
		AssignedAttorney: orDefault(firstString(rec, f.Attorney), defaultAttorney),
		Documents:        docs,
	}
}

func mapCases(records []map[string]any, f caseFields, docFields documentFields, now time.Time) []cases.Case {
	out := make([]cases.Case, 0, len(records))
	for _, rec := range records {
		out = append(out, mapCase(rec, f, docFields, now))
	}
	return out
}

func mapDocument(rec map[string]any, f documentFields, now time.Time) cases.CaseDocument {
	doc := cases.CaseDocument{
		ID:         firstString(rec, f.ID),
		FileName:   orDefault(firstString(rec, f.FileName), defaultFileName),
		UploadDate: parseDate(firstValue(rec, f.UploadDate), now),
		FileSize:   firstInt(rec, f.FileSize),
		MimeType:   orDefault(firstString(rec, f.MimeType), defaultMimeType),
		URL:        firstString(rec, f.URL),
	}
	if label, ok := cases.ParseDocumentType(firstString(rec, f.ClassifiedType)); ok {
		conf, ok := asFloat(firstValue(rec, f.Confidence))
		if !ok || conf < 0 || conf > 1 {
			conf = 1
		}
		doc = doc.WithClassification(label, conf)
	}
	return doc
}

func mapDocuments(raw any, f documentFields, now time.Time) []cases.CaseDocument {
	records := unwrapList(raw)
	out := make([]cases.CaseDocument, 0, len(records))
	for _, rec := range records {
		out = append(out, mapDocument(rec, f, now))
	}
	return out
}

// lookup walks a dotted path through maps and arrays.
func lookup(rec map[string]any, path string) any {
	var cur any = rec
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[part]
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			cur = node[idx]
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

func firstValue(rec map[string]any, paths chain) any {
	for _, path := range paths {
		v := lookup(rec, path)
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func firstString(rec map[string]any, paths chain) string {
	for _, path := range paths {
		if s := asString(lookup(rec, path)); s != "" {
			return s
		}
	}
	return ""
}

func firstInt(rec map[string]any, paths chain) int64 {
	for _, path := range paths {
		if f, ok := asFloat(lookup(rec, path)); ok && f > 0 {
			return int64(f)
		}
	}
	return 0
}

// asString renders scalars; objects and arrays yield "".
func asString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// parseDate accepts free-form date strings and epoch seconds or
// milliseconds. Anything else falls back to now.
func parseDate(v any, now time.Time) time.Time {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return now
		}
		if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
			return t.UTC()
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(f)
		}
		return now
	case json.Number, float64, int, int64:
		f, ok := asFloat(val)
		if !ok {
			return now
		}
		return fromEpoch(f)
	default:
		return now
	}
}

func fromEpoch(f float64) time.Time {
	if f > 1e12 {
		return time.UnixMilli(int64(f)).UTC()
	}
	return time.Unix(int64(f), 0).UTC()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
