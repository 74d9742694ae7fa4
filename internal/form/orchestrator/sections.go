package orchestrator

// BeneficiarySections mirrors the intake form layout: the first section opens
// expanded, the rest collapsed until toggled or forced open by an error.
func BeneficiarySections() []Section {
	return []Section{
		{
			Name:     "Información personal",
			Expanded: true,
			Fields: []string{
				"fullName", "firstSurname", "secondSurname", "gender",
				"dateOfBirth", "educationalProfile", "ethnicity",
				"nationalId", "phoneNumber",
			},
		},
		{
			Name: "Información de la empresa",
			Fields: []string{
				"companyName", "nit", "economicSector", "mainSector",
				"city", "address",
			},
		},
		{
			Name: "Información del crédito",
			Fields: []string{
				"approvedCreditValue", "disbursementDate",
				"creditDestination", "otherCreditDestination",
			},
		},
		{
			Name:   "Observaciones del evaluador",
			Fields: []string{"evaluatorObservations"},
		},
	}
}

// VisitSections mirrors the advisory form layout.
func VisitSections(firstExpanded bool) []Section {
	return []Section{
		{
			Name:     "Evaluación del crédito",
			Expanded: firstExpanded,
			Fields: []string{
				"date", "creditUsedAsApproved", "creditUsageDescription",
				"improvements", "otherImprovement", "timeToResults",
				"resultsAsExpected", "resultsExplanation", "financialRecords",
				"evidenceFile", "resourceManager", "otherResourceManager",
				"paymentsOnSchedule", "paymentExplanation", "satisfaction",
				"needAnotherCredit", "creditIntendedUse",
			},
		},
		{
			Name: "Diagnóstico financiero",
			Fields: []string{
				"monthlyIncome", "fixedCosts", "variableCosts", "debtLevel",
				"creditUsedPercentage", "monthlyPayment", "emergencyReserve",
			},
		},
		{
			Name: "Diagnóstico comercial",
			Fields: []string{
				"monthlyClients", "monthlySales", "totalSalesValue",
				"currentEmployees", "salesChannels", "otherSalesChannel",
			},
		},
		{
			Name:   "Evidencia de la visita",
			Fields: []string{"visitEvidenceFile"},
		},
	}
}
