package audit

import (
	"fmt"
	"strings"
	"time"

	"legal-file-auditor/internal/cases"
	"legal-file-auditor/internal/requirements"
)

// demandPackage is the document set a demand letter is built from.
var demandPackage = []cases.DocumentType{
	cases.DocMedicalRecords,
	cases.DocMedicalBills,
	cases.DocWageLossDocumentation,
}

func (e *Engine) recommendations(c cases.Case, checklist []ChecklistItem, now time.Time) []string {
	policy := e.policy()
	out := make([]string, 0, 4)

	mappers := []func() []string{
		func() []string { return criticalGaps(checklist) },
		func() []string { return phaseGuidance(c.CurrentPhase, checklist) },
		func() []string { return staleIntake(c, now, policy.StaleIntakeDays) },
		func() []string { return lowConfidence(c.Documents, policy.ConfidenceThreshold) },
	}
	for _, mapper := range mappers {
		out = append(out, mapper()...)
	}
	return out
}

func criticalGaps(checklist []ChecklistItem) []string {
	names := make([]string, 0)
	for _, item := range checklist {
		if item.Status == StatusMissing && item.Requirement.Priority == requirements.PriorityCritical {
			names = append(names, item.Requirement.Name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("URGENT: %d critical document(s) missing: %s", len(names), strings.Join(names, ", "))}
}

func phaseGuidance(phase cases.Phase, checklist []ChecklistItem) []string {
	byType := make(map[cases.DocumentType]ChecklistItem, len(checklist))
	for _, item := range checklist {
		byType[item.Requirement.Type] = item
	}
	absent := func(t cases.DocumentType) bool {
		item, ok := byType[t]
		return !ok || len(item.MatchedDocuments) == 0
	}

	var out []string
	switch phase {
	case cases.PhaseIntake:
		if absent(cases.DocMedicalAuthorization) {
			out = append(out, "Obtain signed medical authorization to request treatment records.")
		}
		if absent(cases.DocPoliceReport) {
			out = append(out, "Request official police report if not already obtained.")
		}
	case cases.PhaseTreatment:
		if absent(cases.DocMedicalRecords) {
			out = append(out, "Begin collecting medical records as treatment progresses.")
		}
	case cases.PhaseDemand:
		var missing []string
		for _, t := range demandPackage {
			item, ok := byType[t]
			if ok && item.Status == StatusPresent {
				continue
			}
			if ok {
				missing = append(missing, item.Requirement.Name)
			} else {
				missing = append(missing, string(t))
			}
		}
		if len(missing) == 0 {
			out = append(out, "File appears ready for demand letter preparation.")
		} else {
			out = append(out, "Complete demand package by obtaining: "+strings.Join(missing, ", "))
		}
	case cases.PhaseLitigation:
		if absent(cases.DocComplaint) {
			out = append(out, "Draft and file complaint to initiate litigation.")
		}
	}
	return out
}

func staleIntake(c cases.Case, now time.Time, threshold int) []string {
	if c.CurrentPhase != cases.PhaseIntake || c.DateOpened.IsZero() {
		return nil
	}
	days := int(now.Sub(c.DateOpened) / (24 * time.Hour))
	if days <= threshold {
		return nil
	}
	return []string{fmt.Sprintf("Case has been in intake phase for %d days. Consider advancing to treatment phase.", days)}
}

func lowConfidence(docs []cases.CaseDocument, threshold float64) []string {
	n := 0
	for _, doc := range docs {
		if doc.LowConfidence(threshold) {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return []string{fmt.Sprintf("%d document(s) need manual review due to low AI confidence.", n)}
}
