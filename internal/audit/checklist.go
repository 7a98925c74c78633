package audit

import (
	"legal-file-auditor/internal/cases"
	"legal-file-auditor/internal/requirements"
)

func (e *Engine) buildChecklist(c cases.Case) []ChecklistItem {
	threshold := e.policy().ConfidenceThreshold
	reqs := e.catalog().Cumulative(c.CurrentPhase)
	items := make([]ChecklistItem, 0, len(reqs))
	for _, req := range reqs {
		matched := make([]cases.CaseDocument, 0)
		for _, doc := range c.Documents {
			if doc.IsType(req.Type) {
				matched = append(matched, doc)
			}
		}
		items = append(items, ChecklistItem{
			Requirement:      req,
			Status:           itemStatus(req, matched, threshold),
			MatchedDocuments: matched,
		})
	}
	return items
}

// Only critical requirements are downgraded on low classifier confidence.
func itemStatus(req requirements.Requirement, matched []cases.CaseDocument, threshold float64) Status {
	if len(matched) == 0 {
		return StatusMissing
	}
	if req.Priority == requirements.PriorityCritical {
		for _, doc := range matched {
			if doc.LowConfidence(threshold) {
				return StatusIncomplete
			}
		}
	}
	return StatusPresent
}
