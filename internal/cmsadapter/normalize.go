package cmsadapter

import (
	"strings"

	"legal-file-auditor/internal/cases"
)

type phaseCluster struct {
	phase cases.Phase
	terms []string
}

type caseTypeCluster struct {
	caseType cases.CaseType
	terms    []string
}

// Clusters are checked in phase order and the first match wins, so a status
// naming two stages resolves to the earlier one.
var phaseClusters = []phaseCluster{
	{cases.PhaseIntake, []string{"intake", "new", "open", "onboard"}},
	{cases.PhaseTreatment, []string{"treat", "medical", "discovery"}},
	{cases.PhaseDemand, []string{"demand", "negotiat", "pre-lit", "prelit"}},
	{cases.PhaseLitigation, []string{"litigat", "lawsuit", "filed", "trial"}},
	{cases.PhaseSettlement, []string{"settle", "closed", "disburs"}},
}

var caseTypeClusters = []caseTypeCluster{
	{cases.CaseTypeAutoAccident, []string{"auto", "car", "vehicle", "mva", "motor", "truck"}},
	{cases.CaseTypePremisesLiability, []string{"premises", "slip", "fall", "property"}},
	{cases.CaseTypeMedicalMalpractice, []string{"malpractice", "medical", "doctor", "surgical"}},
	{cases.CaseTypeProductLiability, []string{"product", "defect"}},
}

// NormalizePhase maps a provider status or stage to a canonical phase.
// Unrecognized values map to intake.
func NormalizePhase(raw string) cases.Phase {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return cases.PhaseIntake
	}
	if p := cases.Phase(s); p.Valid() {
		return p
	}
	for _, cluster := range phaseClusters {
		if containsAny(s, cluster.terms) {
			return cluster.phase
		}
	}
	return cases.PhaseIntake
}

// NormalizeCaseType maps a provider practice area or case type to a
// canonical case type, returning def when nothing matches.
func NormalizeCaseType(raw string, def cases.CaseType) cases.CaseType {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return def
	}
	if t := cases.CaseType(s); t.Valid() {
		return t
	}
	for _, cluster := range caseTypeClusters {
		if containsAny(s, cluster.terms) {
			return cluster.caseType
		}
	}
	return def
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
