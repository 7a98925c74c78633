// Package classifier labels case documents with a document type.
package classifier

import (
	"context"
	"math"
	"regexp"
	"strings"

	"legal-file-auditor/internal/cases"
	"legal-file-auditor/internal/requirements"
)

const (
	fallbackConfidence = 0.5
	// contentDiscount lowers confidence for matches found in document text
	// rather than the file name.
	contentDiscount = 0.1

	SourceFileName = "filename_pattern"
	SourceContent  = "content_pattern"
	SourceNone     = "none"
)

// Input is a document to classify. Data is optional.
type Input struct {
	FileName string
	MimeType string
	Data     []byte
}

// Result is a classification outcome.
type Result struct {
	DocumentType  cases.DocumentType `json:"documentType"`
	Confidence    float64            `json:"confidence"`
	ExtractedData map[string]any     `json:"extractedData"`
	Summary       string             `json:"summary"`
}

// Classifier assigns a document type and confidence to a document.
type Classifier interface {
	Classify(ctx context.Context, in Input) (Result, error)
}

type rule struct {
	pattern    *regexp.Regexp
	docType    cases.DocumentType
	confidence float64
}

// rules are tried in order; the first match wins.
var rules = []rule{
	{regexp.MustCompile(`(?i)intake|client.*form`), cases.DocClientIntakeForm, 0.9},
	{regexp.MustCompile(`(?i)fee.*agreement|retainer`), cases.DocFeeAgreement, 0.9},
	{regexp.MustCompile(`(?i)medical.*auth|hipaa`), cases.DocMedicalAuthorization, 0.9},
	{regexp.MustCompile(`(?i)police.*report|incident.*report`), cases.DocPoliceReport, 0.85},
	{regexp.MustCompile(`(?i)photo|image|scene`), cases.DocIncidentPhotos, 0.8},
	{regexp.MustCompile(`(?i)witness.*statement`), cases.DocWitnessStatements, 0.85},
	{regexp.MustCompile(`(?i)medical.*record`), cases.DocMedicalRecords, 0.9},
	{regexp.MustCompile(`(?i)medical.*bill|invoice`), cases.DocMedicalBills, 0.9},
	{regexp.MustCompile(`(?i)employment|employer`), cases.DocEmploymentRecords, 0.8},
	{regexp.MustCompile(`(?i)wage|pay.*stub|w-2|tax.*return`), cases.DocWageLossDocumentation, 0.85},
	{regexp.MustCompile(`(?i)damage.*estimate|repair`), cases.DocPropertyDamageEstimate, 0.8},
	{regexp.MustCompile(`(?i)insurance.*correspondence|adjuster`), cases.DocInsuranceCorrespondence, 0.8},
	{regexp.MustCompile(`(?i)demand.*letter`), cases.DocDemandLetter, 0.9},
	{regexp.MustCompile(`(?i)complaint|petition`), cases.DocComplaint, 0.85},
	{regexp.MustCompile(`(?i)discovery.*request|interrogator`), cases.DocDiscoveryRequests, 0.85},
	{regexp.MustCompile(`(?i)discovery.*response`), cases.DocDiscoveryResponses, 0.85},
	{regexp.MustCompile(`(?i)expert.*report`), cases.DocExpertReports, 0.85},
	{regexp.MustCompile(`(?i)settlement.*agreement|release`), cases.DocSettlementAgreement, 0.9},
}

// PatternClassifier matches file names, and PDF or DOCX text when bytes are
// supplied, against a fixed pattern table.
type PatternClassifier struct {
	Catalog *requirements.Catalog
}

// NewPatternClassifier returns a classifier over the default catalog.
func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{Catalog: requirements.Default()}
}

func (p *PatternClassifier) Classify(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if r, ok := match(in.FileName); ok {
		return p.result(in.FileName, r.docType, r.confidence, SourceFileName), nil
	}
	if len(in.Data) > 0 {
		text, err := extractText(ctx, in.Data, in.MimeType, in.FileName)
		if err != nil {
			return Result{}, err
		}
		if r, ok := match(text); ok {
			conf := math.Round((r.confidence-contentDiscount)*100) / 100
			return p.result(in.FileName, r.docType, conf, SourceContent), nil
		}
	}
	return p.result(in.FileName, cases.DocOther, fallbackConfidence, SourceNone), nil
}

// ClassifyName labels a document from its file name alone.
func (p *PatternClassifier) ClassifyName(fileName string) Result {
	if r, ok := match(fileName); ok {
		return p.result(fileName, r.docType, r.confidence, SourceFileName)
	}
	return p.result(fileName, cases.DocOther, fallbackConfidence, SourceNone)
}

func (p *PatternClassifier) result(fileName string, t cases.DocumentType, confidence float64, source string) Result {
	return Result{
		DocumentType: t,
		Confidence:   confidence,
		ExtractedData: map[string]any{
			"filename":     fileName,
			"detectedFrom": source,
		},
		Summary: p.summary(t),
	}
}

func (p *PatternClassifier) summary(t cases.DocumentType) string {
	catalog := p.Catalog
	if catalog == nil {
		catalog = requirements.Default()
	}
	if req, ok := catalog.Lookup(t); ok {
		return req.Name + ": " + req.Description + "."
	}
	return "Unrecognized document; manual review required."
}

func match(text string) (rule, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return rule{}, false
	}
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r, true
		}
	}
	return rule{}, false
}

// LabelUnclassified returns a copy of docs in which every unlabeled document
// whose file name matches a rule carries that classification. Documents that
// match nothing stay unlabeled.
func (p *PatternClassifier) LabelUnclassified(docs []cases.CaseDocument) []cases.CaseDocument {
	out := make([]cases.CaseDocument, len(docs))
	for i, doc := range docs {
		if !doc.Classified() {
			if r, ok := match(doc.FileName); ok {
				doc = doc.WithClassification(r.docType, r.confidence)
			}
		}
		out[i] = doc
	}
	return out
}
