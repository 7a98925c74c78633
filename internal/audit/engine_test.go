package audit

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-file-auditor/internal/cases"
	"legal-file-auditor/internal/requirements"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return &Engine{
		Catalog: requirements.Default(),
		Policy:  DefaultPolicy(),
		Now:     func() time.Time { return fixedNow },
	}
}

func doc(id string, t cases.DocumentType, confidence float64) cases.CaseDocument {
	return cases.CaseDocument{
		ID:       id,
		FileName: string(t) + ".pdf",
		MimeType: "application/pdf",
	}.WithClassification(t, confidence)
}

func newCase(phase cases.Phase, docs ...cases.CaseDocument) cases.Case {
	return cases.Case{
		ID:           "case-1",
		CaseNumber:   "PI-001",
		ClientName:   "Jane Roe",
		CaseType:     cases.CaseTypeAutoAccident,
		CurrentPhase: phase,
		DateOpened:   fixedNow.AddDate(0, 0, -10),
		Documents:    docs,
	}
}

func findItem(t *testing.T, r Report, typ cases.DocumentType) ChecklistItem {
	t.Helper()
	for _, item := range r.Checklist {
		if item.Requirement.Type == typ {
			return item
		}
	}
	t.Fatalf("checklist has no item for %s", typ)
	return ChecklistItem{}
}

func TestScoresStayInRange(t *testing.T) {
	engine := newTestEngine()
	for _, phase := range cases.Phases {
		for _, docs := range [][]cases.CaseDocument{
			nil,
			{doc("d1", cases.DocClientIntakeForm, 0.9)},
			{doc("d1", cases.DocMedicalRecords, 0.3), doc("d2", cases.DocComplaint, 0.99)},
		} {
			report := engine.GenerateReport(newCase(phase, docs...))
			assert.GreaterOrEqual(t, report.Score.Overall, 0)
			assert.LessOrEqual(t, report.Score.Overall, 100)
			require.Len(t, report.Score.ByPhase, len(cases.Phases))
			for p, v := range report.Score.ByPhase {
				assert.GreaterOrEqual(t, v, 0, "phase %s", p)
				assert.LessOrEqual(t, v, 100, "phase %s", p)
			}
		}
	}
}

func TestPhaseWithoutRequirementsScoresFull(t *testing.T) {
	report := newTestEngine().GenerateReport(newCase(cases.PhaseIntake))
	assert.Equal(t, 100, report.Score.ByPhase[cases.PhaseSettlement])
	assert.Equal(t, 0, report.Score.ByPhase[cases.PhaseIntake])
	assert.Equal(t, 0, report.Score.Overall)
}

func TestEmptyCaseIsAllMissing(t *testing.T) {
	report := newTestEngine().GenerateReport(newCase(cases.PhaseDemand))

	nonOptional := 0
	for _, req := range requirements.Default().Cumulative(cases.PhaseDemand) {
		if req.Priority != requirements.PriorityOptional {
			nonOptional++
		}
	}
	for _, item := range report.Checklist {
		assert.Equal(t, StatusMissing, item.Status, item.Requirement.Name)
		assert.Empty(t, item.MatchedDocuments)
	}
	s := report.Score
	assert.Equal(t, nonOptional, s.CriticalMissing+s.RequiredMissing+s.RecommendedMissing)
	assert.Equal(t, 6, s.CriticalMissing)
	assert.Equal(t, 5, s.RequiredMissing)
	assert.Equal(t, 2, s.RecommendedMissing)
}

func TestLowConfidenceCriticalIsIncomplete(t *testing.T) {
	report := newTestEngine().GenerateReport(newCase(cases.PhaseIntake,
		doc("d1", cases.DocFeeAgreement, 0.5),
		doc("d2", cases.DocPoliceReport, 0.5),
	))

	assert.Equal(t, StatusIncomplete, findItem(t, report, cases.DocFeeAgreement).Status)
	// non-critical requirements accept low-confidence labels
	assert.Equal(t, StatusPresent, findItem(t, report, cases.DocPoliceReport).Status)
	assert.Contains(t, report.Recommendations, "2 document(s) need manual review due to low AI confidence.")
}

func TestIntakeScoreWeights(t *testing.T) {
	report := newTestEngine().GenerateReport(newCase(cases.PhaseIntake,
		doc("d1", cases.DocClientIntakeForm, 0.9),
		doc("d2", cases.DocFeeAgreement, 0.9),
		doc("d3", cases.DocMedicalAuthorization, 0.9),
	))
	// 30 achieved of 42 (3 critical, 2 required, 1 recommended)
	assert.Equal(t, 71, report.Score.ByPhase[cases.PhaseIntake])
	assert.Equal(t, 71, report.Score.Overall)
	assert.Zero(t, report.Score.CriticalMissing)
	assert.Equal(t, 2, report.Score.RequiredMissing)
	assert.Equal(t, 1, report.Score.RecommendedMissing)
}

func TestReportIsIdempotent(t *testing.T) {
	engine := newTestEngine()
	c := newCase(cases.PhaseTreatment,
		doc("d1", cases.DocClientIntakeForm, 0.9),
		doc("d2", cases.DocMedicalBills, 0.6),
	)
	first := engine.GenerateReport(c)
	second := engine.GenerateReport(c)
	assert.Equal(t, first, second)
}

func TestReportDoesNotMutateCase(t *testing.T) {
	c := newCase(cases.PhaseDemand, doc("d1", cases.DocMedicalRecords, 0.9))
	before := *c.Documents[0].AIConfidence
	report := newTestEngine().GenerateReport(c)
	report.Case.Documents[0].FileName = "changed"
	assert.Equal(t, before, *c.Documents[0].AIConfidence)
	assert.Equal(t, "medical_records.pdf", c.Documents[0].FileName)
	assert.Len(t, c.Documents, 1)
}

func TestReadinessWhenPhaseComplete(t *testing.T) {
	report := newTestEngine().GenerateReport(newCase(cases.PhaseIntake,
		doc("d1", cases.DocClientIntakeForm, 0.9),
		doc("d2", cases.DocFeeAgreement, 0.9),
		doc("d3", cases.DocMedicalAuthorization, 0.9),
	))
	assert.True(t, report.PhaseReadiness.CurrentPhaseComplete)
	assert.True(t, report.PhaseReadiness.ReadyForNextPhase)
	assert.Empty(t, report.PhaseReadiness.Blockers)
}

func TestReadinessBlockers(t *testing.T) {
	report := newTestEngine().GenerateReport(newCase(cases.PhaseIntake,
		doc("d1", cases.DocClientIntakeForm, 0.9),
	))
	assert.False(t, report.PhaseReadiness.CurrentPhaseComplete)
	assert.False(t, report.PhaseReadiness.ReadyForNextPhase)
	assert.Equal(t, []string{
		"Missing: Fee Agreement / Retainer",
		"Missing: Medical Authorization (HIPAA)",
	}, report.PhaseReadiness.Blockers)
}

func TestSettlementHasNoNextPhase(t *testing.T) {
	report := newTestEngine().GenerateReport(newCase(cases.PhaseSettlement,
		doc("d1", cases.DocSettlementAgreement, 0.95),
	))
	assert.True(t, report.PhaseReadiness.CurrentPhaseComplete)
	assert.False(t, report.PhaseReadiness.ReadyForNextPhase)
}

func TestDemandReadyScenario(t *testing.T) {
	report := newTestEngine().GenerateReport(newCase(cases.PhaseDemand,
		doc("d1", cases.DocMedicalRecords, 0.9),
		doc("d2", cases.DocMedicalBills, 0.8),
		doc("d3", cases.DocWageLossDocumentation, 0.75),
	))
	assert.Contains(t, report.Recommendations, "File appears ready for demand letter preparation.")
	for _, rec := range report.Recommendations {
		for _, name := range []string{"Medical Records", "Medical Bills/Invoices", "Wage Loss Documentation"} {
			assert.NotContains(t, rec, name)
		}
	}
}

func TestDemandPackageIncomplete(t *testing.T) {
	report := newTestEngine().GenerateReport(newCase(cases.PhaseDemand,
		doc("d1", cases.DocMedicalRecords, 0.9),
	))
	assert.Contains(t, report.Recommendations,
		"Complete demand package by obtaining: Medical Bills/Invoices, Wage Loss Documentation")
}

func TestStaleIntakeScenario(t *testing.T) {
	c := newCase(cases.PhaseIntake,
		doc("d1", cases.DocClientIntakeForm, 0.9),
		doc("d2", cases.DocFeeAgreement, 0.9),
	)
	c.DateOpened = fixedNow.AddDate(0, 0, -120)
	report := newTestEngine().GenerateReport(c)
	assert.Contains(t, report.Recommendations,
		"Case has been in intake phase for 120 days. Consider advancing to treatment phase.")
}

func TestStaleThresholdIsPolicy(t *testing.T) {
	engine := newTestEngine()
	engine.Policy.StaleIntakeDays = 5
	report := engine.GenerateReport(newCase(cases.PhaseIntake))
	assert.Contains(t, report.Recommendations,
		"Case has been in intake phase for 10 days. Consider advancing to treatment phase.")
}

func TestRecommendationOrder(t *testing.T) {
	c := newCase(cases.PhaseIntake, doc("d1", cases.DocClientIntakeForm, 0.4))
	c.DateOpened = fixedNow.AddDate(0, 0, -100)
	recs := newTestEngine().GenerateReport(c).Recommendations

	require.Len(t, recs, 5)
	assert.Equal(t, "URGENT: 2 critical document(s) missing: Fee Agreement / Retainer, Medical Authorization (HIPAA)", recs[0])
	assert.Equal(t, "Obtain signed medical authorization to request treatment records.", recs[1])
	assert.Equal(t, "Request official police report if not already obtained.", recs[2])
	assert.True(t, strings.HasPrefix(recs[3], "Case has been in intake phase for 100 days"))
	assert.Equal(t, "1 document(s) need manual review due to low AI confidence.", recs[4])
}

func TestLitigationGuidance(t *testing.T) {
	recs := newTestEngine().GenerateReport(newCase(cases.PhaseLitigation)).Recommendations
	assert.Contains(t, recs, "Draft and file complaint to initiate litigation.")

	recs = newTestEngine().GenerateReport(newCase(cases.PhaseLitigation, doc("d1", cases.DocComplaint, 0.2))).Recommendations
	assert.NotContains(t, recs, "Draft and file complaint to initiate litigation.")
}

func TestSummaryKeepsTopThree(t *testing.T) {
	c := newCase(cases.PhaseIntake, doc("d1", cases.DocClientIntakeForm, 0.4))
	c.DateOpened = fixedNow.AddDate(0, 0, -100)
	report := newTestEngine().GenerateReport(c)
	sum := Summary(report)

	assert.Equal(t, "case-1", sum.CaseID)
	assert.Equal(t, "intake", sum.Phase)
	assert.Equal(t, report.Score.Overall, sum.Score)
	assert.Equal(t, report.Recommendations[:3], sum.Recommendations)
}
