package audit

import (
	"time"

	"legal-file-auditor/internal/cases"
	"legal-file-auditor/internal/requirements"
)

const (
	DefaultConfidenceThreshold = 0.75
	DefaultStaleIntakeDays     = 90
)

// Policy holds the tunable thresholds used while scoring.
type Policy struct {
	// ConfidenceThreshold below which a classifier label is not trusted.
	ConfidenceThreshold float64
	// StaleIntakeDays after which an intake case is flagged.
	StaleIntakeDays int
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		StaleIntakeDays:     DefaultStaleIntakeDays,
	}
}

// Engine audits cases against a requirement catalog. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	Catalog *requirements.Catalog
	Policy  Policy
	Now     func() time.Time
}

// NewEngine returns an engine over the default catalog.
func NewEngine(policy Policy) *Engine {
	return &Engine{
		Catalog: requirements.Default(),
		Policy:  policy,
		Now:     time.Now,
	}
}

// GenerateReport audits c. The case is read but never modified.
func (e *Engine) GenerateReport(c cases.Case) Report {
	now := e.now()
	checklist := e.buildChecklist(c)
	score := e.score(c.CurrentPhase, checklist)

	return Report{
		CaseID:          c.ID,
		Case:            c.Clone(),
		Checklist:       checklist,
		Score:           score,
		Recommendations: e.recommendations(c, checklist, now),
		PhaseReadiness:  e.readiness(c.CurrentPhase, checklist),
		GeneratedAt:     now,
	}
}

func (e *Engine) catalog() *requirements.Catalog {
	if e.Catalog == nil {
		return requirements.Default()
	}
	return e.Catalog
}

func (e *Engine) policy() Policy {
	p := e.Policy
	if p.ConfidenceThreshold <= 0 {
		p.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if p.StaleIntakeDays <= 0 {
		p.StaleIntakeDays = DefaultStaleIntakeDays
	}
	return p
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}
