package audit

import (
	"time"

	"legal-file-auditor/internal/cases"
	"legal-file-auditor/internal/requirements"
)

// Status is the evaluation outcome of one checklist item.
type Status string

const (
	StatusPresent    Status = "present"
	StatusMissing    Status = "missing"
	StatusIncomplete Status = "incomplete"
)

// ChecklistItem pairs a requirement with the case documents that satisfy it.
type ChecklistItem struct {
	Requirement      requirements.Requirement `json:"requirement"`
	Status           Status                   `json:"status"`
	MatchedDocuments []cases.CaseDocument     `json:"matchedDocuments"`
}

// Score is the weighted completeness of a case.
type Score struct {
	Overall            int                 `json:"overall"`
	ByPhase            map[cases.Phase]int `json:"byPhase"`
	CriticalMissing    int                 `json:"criticalMissing"`
	RequiredMissing    int                 `json:"requiredMissing"`
	RecommendedMissing int                 `json:"recommendedMissing"`
}

// Readiness describes whether the case can advance past its current phase.
type Readiness struct {
	CurrentPhaseComplete bool     `json:"currentPhaseComplete"`
	ReadyForNextPhase    bool     `json:"readyForNextPhase"`
	Blockers             []string `json:"blockers"`
}

// Report is the full result of auditing one case.
type Report struct {
	CaseID          string          `json:"caseId"`
	Case            cases.Case      `json:"case"`
	Checklist       []ChecklistItem `json:"checklist"`
	Score           Score           `json:"score"`
	Recommendations []string        `json:"recommendations"`
	PhaseReadiness  Readiness       `json:"phaseReadiness"`
	GeneratedAt     time.Time       `json:"generatedAt"`
}

// CaseSummary is the persistence-facing digest of a report.
type CaseSummary struct {
	CaseID             string   `json:"caseId"`
	CaseNumber         string   `json:"caseNumber"`
	ClientName         string   `json:"clientName"`
	Phase              string   `json:"phase"`
	Score              int      `json:"score"`
	CriticalMissing    int      `json:"criticalMissing"`
	RequiredMissing    int      `json:"requiredMissing"`
	RecommendedMissing int      `json:"recommendedMissing"`
	Recommendations    []string `json:"recommendations"`
	Error              string   `json:"error,omitempty"`
}
