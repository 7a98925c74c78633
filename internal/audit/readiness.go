package audit

import "legal-file-auditor/internal/cases"

func (e *Engine) readiness(current cases.Phase, checklist []ChecklistItem) Readiness {
	blockers := make([]string, 0)
	for _, item := range checklist {
		req := item.Requirement
		if !req.RequiredForPhaseCompletion || !req.AppliesTo(current) {
			continue
		}
		if item.Status == StatusMissing {
			blockers = append(blockers, "Missing: "+req.Name)
		}
	}
	complete := len(blockers) == 0
	_, hasNext := current.Next()
	return Readiness{
		CurrentPhaseComplete: complete,
		ReadyForNextPhase:    complete && hasNext,
		Blockers:             blockers,
	}
}
