package cases

// Index returns the position of p in the canonical order, or -1 when p is unknown.
func (p Phase) Index() int {
	for i, candidate := range Phases {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is one of the canonical phases.
func (p Phase) Valid() bool {
	return p.Index() >= 0
}

// Next returns the phase after p, if any.
func (p Phase) Next() (Phase, bool) {
	idx := p.Index()
	if idx < 0 || idx+1 >= len(Phases) {
		return "", false
	}
	return Phases[idx+1], true
}

// AtOrBefore reports whether p comes no later than other.
func (p Phase) AtOrBefore(other Phase) bool {
	idx := p.Index()
	return idx >= 0 && idx <= other.Index()
}

// PhasesThrough returns every phase up to and including p.
func PhasesThrough(p Phase) []Phase {
	idx := p.Index()
	if idx < 0 {
		return nil
	}
	out := make([]Phase, idx+1)
	copy(out, Phases[:idx+1])
	return out
}

// Valid reports whether t is one of the known case types.
func (t CaseType) Valid() bool {
	switch t {
	case CaseTypeAutoAccident, CaseTypePremisesLiability, CaseTypeMedicalMalpractice, CaseTypeProductLiability, CaseTypeOther:
		return true
	default:
		return false
	}
}

// DocumentTypes lists every classifier label.
var DocumentTypes = []DocumentType{
	DocClientIntakeForm, DocFeeAgreement, DocMedicalAuthorization, DocPoliceReport,
	DocIncidentPhotos, DocWitnessStatements, DocMedicalRecords, DocMedicalBills,
	DocEmploymentRecords, DocWageLossDocumentation, DocPropertyDamageEstimate,
	DocInsuranceCorrespondence, DocDemandLetter, DocComplaint, DocDiscoveryRequests,
	DocDiscoveryResponses, DocExpertReports, DocSettlementAgreement, DocOther,
}

// ParseDocumentType returns the document type named by raw, if it is one.
func ParseDocumentType(raw string) (DocumentType, bool) {
	for _, t := range DocumentTypes {
		if string(t) == raw {
			return t, true
		}
	}
	return "", false
}
