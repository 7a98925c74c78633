package audit

import (
	"math"

	"legal-file-auditor/internal/cases"
	"legal-file-auditor/internal/requirements"
)

func (e *Engine) score(current cases.Phase, checklist []ChecklistItem) Score {
	byPhase := make(map[cases.Phase]int, len(cases.Phases))
	for _, phase := range cases.Phases {
		total, achieved := 0, 0
		for _, item := range checklist {
			if !item.Requirement.AppliesTo(phase) {
				continue
			}
			w := item.Requirement.Priority.Weight()
			total += w
			if item.Status == StatusPresent {
				achieved += w
			}
		}
		byPhase[phase] = percent(achieved, total)
	}

	relevant := cases.PhasesThrough(current)
	overall := 0
	if len(relevant) > 0 {
		sum := 0
		for _, phase := range relevant {
			sum += byPhase[phase]
		}
		overall = int(math.Round(float64(sum) / float64(len(relevant))))
	}

	score := Score{Overall: overall, ByPhase: byPhase}
	for _, item := range checklist {
		if item.Status != StatusMissing {
			continue
		}
		switch item.Requirement.Priority {
		case requirements.PriorityCritical:
			score.CriticalMissing++
		case requirements.PriorityRequired:
			score.RequiredMissing++
		case requirements.PriorityRecommended:
			score.RecommendedMissing++
		}
	}
	return score
}

// percent treats an empty weight set as fully satisfied.
func percent(achieved, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(achieved) / float64(total) * 100))
}
