package cases

import "time"

// Phase is one of the five ordered litigation stages a case moves through.
type Phase string

const (
	PhaseIntake     Phase = "intake"
	PhaseTreatment  Phase = "treatment"
	PhaseDemand     Phase = "demand"
	PhaseLitigation Phase = "litigation"
	PhaseSettlement Phase = "settlement"
)

// Phases lists every phase in canonical order.
var Phases = []Phase{PhaseIntake, PhaseTreatment, PhaseDemand, PhaseLitigation, PhaseSettlement}

// CaseType classifies the kind of personal-injury matter.
type CaseType string

const (
	CaseTypeAutoAccident       CaseType = "auto_accident"
	CaseTypePremisesLiability  CaseType = "premises_liability"
	CaseTypeMedicalMalpractice CaseType = "medical_malpractice"
	CaseTypeProductLiability   CaseType = "product_liability"
	CaseTypeOther              CaseType = "other"
)

// DocumentType is the label a classifier assigns to a case document.
type DocumentType string

const (
	DocClientIntakeForm        DocumentType = "client_intake_form"
	DocFeeAgreement            DocumentType = "fee_agreement"
	DocMedicalAuthorization    DocumentType = "medical_authorization"
	DocPoliceReport            DocumentType = "police_report"
	DocIncidentPhotos          DocumentType = "incident_photos"
	DocWitnessStatements       DocumentType = "witness_statements"
	DocMedicalRecords          DocumentType = "medical_records"
	DocMedicalBills            DocumentType = "medical_bills"
	DocEmploymentRecords       DocumentType = "employment_records"
	DocWageLossDocumentation   DocumentType = "wage_loss_documentation"
	DocPropertyDamageEstimate  DocumentType = "property_damage_estimate"
	DocInsuranceCorrespondence DocumentType = "insurance_correspondence"
	DocDemandLetter            DocumentType = "demand_letter"
	DocComplaint               DocumentType = "complaint"
	DocDiscoveryRequests       DocumentType = "discovery_requests"
	DocDiscoveryResponses      DocumentType = "discovery_responses"
	DocExpertReports           DocumentType = "expert_reports"
	DocSettlementAgreement     DocumentType = "settlement_agreement"
	DocOther                   DocumentType = "other"
)

// Case is the canonical case record every CMS adapter normalizes into.
type Case struct {
	ID               string         `json:"id"`
	CaseNumber       string         `json:"caseNumber"`
	ClientName       string         `json:"clientName"`
	CaseType         CaseType       `json:"caseType"`
	CurrentPhase     Phase          `json:"currentPhase"`
	DateOfIncident   time.Time      `json:"dateOfIncident"`
	DateOpened       time.Time      `json:"dateOpened"`
	AssignedAttorney string         `json:"assignedAttorney"`
	Documents        []CaseDocument `json:"documents"`
}

// CaseDocument is a file attached to a case in the CMS.
type CaseDocument struct {
	ID             string         `json:"id"`
	FileName       string         `json:"fileName"`
	UploadDate     time.Time      `json:"uploadDate"`
	FileSize       int64          `json:"fileSize"`
	MimeType       string         `json:"mimeType"`
	ClassifiedType *DocumentType  `json:"classifiedType,omitempty"`
	AIConfidence   *float64       `json:"aiConfidence,omitempty"`
	ExtractedData  map[string]any `json:"extractedData,omitempty"`
	URL            string         `json:"url,omitempty"`
}

// Classified reports whether the document carries a classifier label.
func (d CaseDocument) Classified() bool {
	return d.ClassifiedType != nil
}

// IsType reports whether the document was classified as t.
func (d CaseDocument) IsType(t DocumentType) bool {
	return d.ClassifiedType != nil && *d.ClassifiedType == t
}

// LowConfidence reports whether the classifier confidence is present and below threshold.
func (d CaseDocument) LowConfidence(threshold float64) bool {
	return d.AIConfidence != nil && *d.AIConfidence < threshold
}

// WithClassification returns a copy of d labelled with t at the given confidence.
func (d CaseDocument) WithClassification(t DocumentType, confidence float64) CaseDocument {
	label := t
	conf := confidence
	d.ClassifiedType = &label
	d.AIConfidence = &conf
	return d
}

// Clone returns a copy of c that shares no mutable state with it.
func (c Case) Clone() Case {
	if c.Documents == nil {
		return c
	}
	docs := make([]CaseDocument, len(c.Documents))
	for i, d := range c.Documents {
		if d.ClassifiedType != nil {
			t := *d.ClassifiedType
			d.ClassifiedType = &t
		}
		if d.AIConfidence != nil {
			v := *d.AIConfidence
			d.AIConfidence = &v
		}
		if d.ExtractedData != nil {
			m := make(map[string]any, len(d.ExtractedData))
			for k, v := range d.ExtractedData {
				m[k] = v
			}
			d.ExtractedData = m
		}
		docs[i] = d
	}
	c.Documents = docs
	return c
}
