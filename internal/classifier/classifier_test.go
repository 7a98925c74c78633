package classifier

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"legal-file-auditor/internal/cases"
)

func TestClassifyName(t *testing.T) {
	p := NewPatternClassifier()
	tests := []struct {
		name     string
		wantType cases.DocumentType
		wantConf float64
	}{
		{"Client Intake Form.pdf", cases.DocClientIntakeForm, 0.9},
		{"signed_retainer.pdf", cases.DocFeeAgreement, 0.9},
		{"HIPAA release.pdf", cases.DocMedicalAuthorization, 0.9},
		{"Police Report 2024-113.pdf", cases.DocPoliceReport, 0.85},
		{"scene_01.jpg", cases.DocIncidentPhotos, 0.8},
		{"Medical Records - ER.pdf", cases.DocMedicalRecords, 0.9},
		{"invoice_0091.pdf", cases.DocMedicalBills, 0.9},
		{"2023 W-2.pdf", cases.DocWageLossDocumentation, 0.85},
		{"Demand Letter to Allstate.docx", cases.DocDemandLetter, 0.9},
		{"Discovery Responses - Defendant.pdf", cases.DocDiscoveryResponses, 0.85},
		{"Interrogatories Set One.pdf", cases.DocDiscoveryRequests, 0.85},
		{"Settlement Agreement.pdf", cases.DocSettlementAgreement, 0.9},
		{"notes.txt", cases.DocOther, 0.5},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := p.ClassifyName(tt.name)
			if got.DocumentType != tt.wantType || got.Confidence != tt.wantConf {
				t.Fatalf("ClassifyName(%q) = %s@%v, want %s@%v", tt.name, got.DocumentType, got.Confidence, tt.wantType, tt.wantConf)
			}
			if got.Summary == "" {
				t.Fatalf("expected summary")
			}
		})
	}
}

func TestClassifyFallsBackToDocxContent(t *testing.T) {
	data := docxWith(t, "<w:document><w:body><w:p><w:r><w:t>RE: DEMAND LETTER for policy limits</w:t></w:r></w:p></w:body></w:document>")
	res, err := NewPatternClassifier().Classify(context.Background(), Input{FileName: "scan_0042.docx", Data: data})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.DocumentType != cases.DocDemandLetter {
		t.Fatalf("expected demand_letter, got %s", res.DocumentType)
	}
	if res.Confidence != 0.8 {
		t.Fatalf("expected discounted confidence 0.8, got %v", res.Confidence)
	}
	if res.ExtractedData["detectedFrom"] != SourceContent {
		t.Fatalf("expected content source, got %v", res.ExtractedData["detectedFrom"])
	}
}

func TestClassifyUnsupportedPayload(t *testing.T) {
	_, err := NewPatternClassifier().Classify(context.Background(), Input{FileName: "blob.bin", MimeType: "application/octet-stream", Data: []byte{1, 2, 3}})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestClassifyNameWinsOverPayload(t *testing.T) {
	res, err := NewPatternClassifier().Classify(context.Background(), Input{FileName: "fee agreement.bin", Data: []byte{1}})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.DocumentType != cases.DocFeeAgreement {
		t.Fatalf("expected fee_agreement, got %s", res.DocumentType)
	}
}

func TestLabelUnclassifiedKeepsExistingLabels(t *testing.T) {
	labelled := cases.CaseDocument{ID: "a", FileName: "Medical Records.pdf"}.WithClassification(cases.DocComplaint, 0.99)
	docs := []cases.CaseDocument{labelled, {ID: "b", FileName: "Medical Bills.pdf"}}

	out := NewPatternClassifier().LabelUnclassified(docs)
	if !out[0].IsType(cases.DocComplaint) {
		t.Fatalf("existing label overwritten")
	}
	if !out[1].IsType(cases.DocMedicalBills) || *out[1].AIConfidence != 0.9 {
		t.Fatalf("expected medical_bills label, got %+v", out[1])
	}
	if docs[1].Classified() {
		t.Fatalf("input slice was modified")
	}
}

func TestLabelUnclassifiedLeavesUnmatchedAlone(t *testing.T) {
	docs := []cases.CaseDocument{{ID: "a", FileName: "scan_0042.pdf"}, {ID: "b", FileName: "Police Report.pdf"}}

	out := NewPatternClassifier().LabelUnclassified(docs)
	if out[0].Classified() || out[0].AIConfidence != nil {
		t.Fatalf("unmatched document should stay unlabeled, got %+v", out[0])
	}
	if !out[1].IsType(cases.DocPoliceReport) {
		t.Fatalf("expected police_report label, got %+v", out[1])
	}
}

func docxWith(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
