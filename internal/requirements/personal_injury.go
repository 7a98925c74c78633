package requirements

import "legal-file-auditor/internal/cases"

func personalInjury() []Requirement {
	return []Requirement{
		// Intake
		{
			Type:                       cases.DocClientIntakeForm,
			Name:                       "Client Intake Form",
			Description:                "Initial client information and incident details",
			Priority:                   PriorityCritical,
			Phases:                     []cases.Phase{cases.PhaseIntake},
			RequiredForPhaseCompletion: true,
		},
		{
			Type:                       cases.DocFeeAgreement,
			Name:                       "Fee Agreement / Retainer",
			Description:                "Signed attorney-client fee agreement",
			Priority:                   PriorityCritical,
			Phases:                     []cases.Phase{cases.PhaseIntake},
			RequiredForPhaseCompletion: true,
		},
		{
			Type:                       cases.DocMedicalAuthorization,
			Name:                       "Medical Authorization (HIPAA)",
			Description:                "Authorization to obtain medical records",
			Priority:                   PriorityCritical,
			Phases:                     []cases.Phase{cases.PhaseIntake},
			RequiredForPhaseCompletion: true,
		},
		{
			Type:        cases.DocPoliceReport,
			Name:        "Police/Incident Report",
			Description: "Official incident report if applicable",
			Priority:    PriorityRequired,
			Phases:      []cases.Phase{cases.PhaseIntake, cases.PhaseTreatment},
		},
		{
			Type:        cases.DocIncidentPhotos,
			Name:        "Incident Scene Photos",
			Description: "Photos of accident scene, vehicles, or location",
			Priority:    PriorityRequired,
			Phases:      []cases.Phase{cases.PhaseIntake, cases.PhaseTreatment},
		},

		// Treatment
		{
			Type:                       cases.DocMedicalRecords,
			Name:                       "Medical Records",
			Description:                "Complete medical treatment records",
			Priority:                   PriorityCritical,
			Phases:                     []cases.Phase{cases.PhaseTreatment, cases.PhaseDemand, cases.PhaseLitigation},
			RequiredForPhaseCompletion: true,
		},
		{
			Type:                       cases.DocMedicalBills,
			Name:                       "Medical Bills/Invoices",
			Description:                "Itemized medical billing statements",
			Priority:                   PriorityCritical,
			Phases:                     []cases.Phase{cases.PhaseTreatment, cases.PhaseDemand, cases.PhaseLitigation},
			RequiredForPhaseCompletion: true,
		},
		{
			Type:        cases.DocEmploymentRecords,
			Name:        "Employment Records",
			Description: "Employment verification and wage information",
			Priority:    PriorityRequired,
			Phases:      []cases.Phase{cases.PhaseTreatment, cases.PhaseDemand},
		},
		{
			Type:        cases.DocWageLossDocumentation,
			Name:        "Wage Loss Documentation",
			Description: "Pay stubs, tax returns, employer letters",
			Priority:    PriorityRequired,
			Phases:      []cases.Phase{cases.PhaseTreatment, cases.PhaseDemand, cases.PhaseLitigation},
		},
		{
			Type:        cases.DocWitnessStatements,
			Name:        "Witness Statements",
			Description: "Recorded or written witness accounts",
			Priority:    PriorityRecommended,
			Phases:      []cases.Phase{cases.PhaseIntake, cases.PhaseTreatment, cases.PhaseDemand},
		},

		// Demand
		{
			Type:        cases.DocPropertyDamageEstimate,
			Name:        "Property Damage Estimate",
			Description: "Repair estimates or total loss valuation",
			Priority:    PriorityRequired,
			Phases:      []cases.Phase{cases.PhaseDemand, cases.PhaseLitigation},
		},
		{
			Type:        cases.DocInsuranceCorrespondence,
			Name:        "Insurance Correspondence",
			Description: "All communications with insurance companies",
			Priority:    PriorityRecommended,
			Phases:      []cases.Phase{cases.PhaseTreatment, cases.PhaseDemand, cases.PhaseLitigation},
		},
		{
			Type:                       cases.DocDemandLetter,
			Name:                       "Demand Letter",
			Description:                "Formal settlement demand to insurance carrier",
			Priority:                   PriorityCritical,
			Phases:                     []cases.Phase{cases.PhaseDemand},
			RequiredForPhaseCompletion: true,
		},

		// Litigation
		{
			Type:                       cases.DocComplaint,
			Name:                       "Complaint/Petition",
			Description:                "Filed court complaint initiating lawsuit",
			Priority:                   PriorityCritical,
			Phases:                     []cases.Phase{cases.PhaseLitigation},
			RequiredForPhaseCompletion: true,
		},
		{
			Type:        cases.DocDiscoveryRequests,
			Name:        "Discovery Requests",
			Description: "Interrogatories, requests for production, admissions",
			Priority:    PriorityRequired,
			Phases:      []cases.Phase{cases.PhaseLitigation},
		},
		{
			Type:        cases.DocDiscoveryResponses,
			Name:        "Discovery Responses",
			Description: "Client and defendant responses to discovery",
			Priority:    PriorityRequired,
			Phases:      []cases.Phase{cases.PhaseLitigation},
		},
		{
			Type:        cases.DocExpertReports,
			Name:        "Expert Reports",
			Description: "Medical, vocational, or accident reconstruction expert reports",
			Priority:    PriorityRecommended,
			Phases:      []cases.Phase{cases.PhaseLitigation},
		},

		// Settlement
		{
			Type:                       cases.DocSettlementAgreement,
			Name:                       "Settlement Agreement",
			Description:                "Executed settlement and release documents",
			Priority:                   PriorityCritical,
			Phases:                     []cases.Phase{cases.PhaseSettlement},
			RequiredForPhaseCompletion: true,
		},
	}
}
