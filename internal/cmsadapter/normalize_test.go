package cmsadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"legal-file-auditor/internal/cases"
)

func TestNormalizePhase(t *testing.T) {
	tests := []struct {
		in   string
		want cases.Phase
	}{
		{"", cases.PhaseIntake},
		{"New Lead", cases.PhaseIntake},
		{"Open", cases.PhaseIntake},
		{"treatment", cases.PhaseTreatment},
		{"Medical Treatment Ongoing", cases.PhaseTreatment},
		{"Demand Sent", cases.PhaseDemand},
		{"Negotiating", cases.PhaseDemand},
		{"Pre-Lit", cases.PhaseDemand},
		{"Suit Filed", cases.PhaseLitigation},
		{"Discovery", cases.PhaseTreatment},
		{"Trial Prep", cases.PhaseLitigation},
		{"Settled", cases.PhaseSettlement},
		{"Closed", cases.PhaseSettlement},
		{"Disbursement", cases.PhaseSettlement},
		{"Open - Demand Sent", cases.PhaseIntake},
		{"Settlement Negotiation", cases.PhaseDemand},
		{"Medical Records Release Pending", cases.PhaseTreatment},
		{"Lawsuit Settled", cases.PhaseLitigation},
		{"Something Else", cases.PhaseIntake},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhase(tt.in), tt.in)
	}
}

func TestNormalizeCaseType(t *testing.T) {
	tests := []struct {
		in   string
		def  cases.CaseType
		want cases.CaseType
	}{
		{"MVA", cases.CaseTypeOther, cases.CaseTypeAutoAccident},
		{"Truck Accident", cases.CaseTypeOther, cases.CaseTypeAutoAccident},
		{"Slip and Fall", cases.CaseTypeOther, cases.CaseTypePremisesLiability},
		{"Medical Malpractice", cases.CaseTypeOther, cases.CaseTypeMedicalMalpractice},
		{"Defective Product", cases.CaseTypeOther, cases.CaseTypeProductLiability},
		{"product_liability", cases.CaseTypeOther, cases.CaseTypeProductLiability},
		{"Dog Bite", cases.CaseTypeOther, cases.CaseTypeOther},
		{"", cases.CaseTypeAutoAccident, cases.CaseTypeAutoAccident},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCaseType(tt.in, tt.def), tt.in)
	}
}
