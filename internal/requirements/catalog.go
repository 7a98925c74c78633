package requirements

import (
	"sync"

	"legal-file-auditor/internal/cases"
)

// Priority ranks how important a document requirement is.
type Priority string

const (
	PriorityCritical    Priority = "critical"
	PriorityRequired    Priority = "required"
	PriorityRecommended Priority = "recommended"
	PriorityOptional    Priority = "optional"
)

// Weight returns the scoring weight for the priority.
func (p Priority) Weight() int {
	switch p {
	case PriorityCritical:
		return 10
	case PriorityRequired:
		return 5
	case PriorityRecommended:
		return 2
	case PriorityOptional:
		return 1
	default:
		return 0
	}
}

// Requirement states that a document of Type is expected during Phases.
type Requirement struct {
	Type                       cases.DocumentType `json:"type"`
	Name                       string             `json:"name"`
	Description                string             `json:"description"`
	Priority                   Priority           `json:"priority"`
	Phases                     []cases.Phase      `json:"phases"`
	RequiredForPhaseCompletion bool               `json:"requiredForPhaseCompletion"`
}

// AppliesTo reports whether the requirement is expected during phase.
func (r Requirement) AppliesTo(phase cases.Phase) bool {
	for _, p := range r.Phases {
		if p == phase {
			return true
		}
	}
	return false
}

// Catalog is an immutable, ordered table of document requirements.
type Catalog struct {
	items []Requirement
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide personal-injury catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = New(personalInjury())
	})
	return defaultCatalog
}

// New builds a catalog from the given requirements. The slice is copied.
func New(items []Requirement) *Catalog {
	out := make([]Requirement, len(items))
	for i, item := range items {
		item.Phases = append([]cases.Phase(nil), item.Phases...)
		out[i] = item
	}
	return &Catalog{items: out}
}

// All returns every requirement in catalog order.
func (c *Catalog) All() []Requirement {
	return c.filter(func(Requirement) bool { return true })
}

// Len returns the number of requirements.
func (c *Catalog) Len() int {
	return len(c.items)
}

// ForPhase returns requirements that apply to phase.
func (c *Catalog) ForPhase(phase cases.Phase) []Requirement {
	return c.filter(func(r Requirement) bool { return r.AppliesTo(phase) })
}

// Critical returns the critical requirements for phase.
func (c *Catalog) Critical(phase cases.Phase) []Requirement {
	return c.filter(func(r Requirement) bool {
		return r.Priority == PriorityCritical && r.AppliesTo(phase)
	})
}

// Cumulative returns requirements for every phase at or before current.
// Earlier-phase documents stay relevant evidence as a case advances.
func (c *Catalog) Cumulative(current cases.Phase) []Requirement {
	relevant := cases.PhasesThrough(current)
	return c.filter(func(r Requirement) bool {
		for _, p := range relevant {
			if r.AppliesTo(p) {
				return true
			}
		}
		return false
	})
}

// Lookup finds the requirement for a document type.
func (c *Catalog) Lookup(t cases.DocumentType) (Requirement, bool) {
	for _, item := range c.items {
		if item.Type == t {
			return copyRequirement(item), true
		}
	}
	return Requirement{}, false
}

func (c *Catalog) filter(keep func(Requirement) bool) []Requirement {
	out := make([]Requirement, 0, len(c.items))
	for _, item := range c.items {
		if keep(item) {
			out = append(out, copyRequirement(item))
		}
	}
	return out
}

func copyRequirement(r Requirement) Requirement {
	r.Phases = append([]cases.Phase(nil), r.Phases...)
	return r
}
