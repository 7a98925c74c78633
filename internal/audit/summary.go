package audit

// MaxSummaryRecommendations caps how many recommendations a summary keeps.
const MaxSummaryRecommendations = 3

// Summary reduces a report to the fields stored with a scan.
func Summary(r Report) CaseSummary {
	recs := r.Recommendations
	if len(recs) > MaxSummaryRecommendations {
		recs = recs[:MaxSummaryRecommendations]
	}
	return CaseSummary{
		CaseID:             r.CaseID,
		CaseNumber:         r.Case.CaseNumber,
		ClientName:         r.Case.ClientName,
		Phase:              string(r.Case.CurrentPhase),
		Score:              r.Score.Overall,
		CriticalMissing:    r.Score.CriticalMissing,
		RequiredMissing:    r.Score.RequiredMissing,
		RecommendedMissing: r.Score.RecommendedMissing,
		Recommendations:    append([]string(nil), recs...),
	}
}
