package schema

import "impulso-backend/internal/form/field"

// Visit is the follow-up/advisory aggregate: credit evaluation, financial
// diagnosis, commercial diagnosis and evidence. Canonical names are
// creditIntendedUse and salesChannels; earlier revisions of the intake forms
// disagreed on their spelling.
var Visit = &Schema{
	Name: "visit",
	Rules: []Rule{
		// Evaluación del crédito
		{Name: "date", Required: true, Check: field.Date("La fecha de la visita")},
		{Name: "creditUsedAsApproved", Required: true, Check: field.NonEmpty("Este campo es obligatorio")},
		{Name: "creditUsageDescription", Required: true, Check: field.NonEmpty("Este campo es obligatorio")},
		{Name: "improvements", Required: true, Check: field.MinItems(1, "Este campo es obligatorio")},
		{
			Name:  "otherImprovement",
			When:  func(r Record) bool { return contains(r, "improvements", TagOtraMejora) },
			Check: field.NonEmpty("Este campo es obligatorio"),
		},
		{Name: "timeToResults", Required: true, Check: field.NonEmpty("Este campo es obligatorio")},
		{Name: "resultsAsExpected", Required: true, Check: field.NonEmpty("Este campo es obligatorio")},
		{
			Name:  "resultsExplanation",
			When:  func(r Record) bool { return equalsAny(r, "resultsAsExpected", "No", "Parcialmente") },
			Check: field.NonEmpty("Este campo es obligatorio"),
		},
		{Name: "financialRecords", Required: true, Check: field.NonEmpty("Este campo es obligatorio")},
		// Evidence stays optional even when financialRecords is "Sí":
		// the upload is only offered then, never demanded.
		{Name: "evidenceFile", Check: field.FileSet()},
		{Name: "resourceManager", Required: true, Check: field.NonEmpty("Este campo es obligatorio")},
		{
			Name:  "otherResourceManager",
			When:  func(r Record) bool { return equalsAny(r, "resourceManager", "Otro") },
			Check: field.NonEmpty("Este campo es obligatorio"),
		},
		{Name: "paymentsOnSchedule", Required: true, Check: field.NonEmpty("Este campo es obligatorio")},
		{
			Name:  "paymentExplanation",
			When:  func(r Record) bool { return equalsAny(r, "paymentsOnSchedule", "No", "Parcialmente") },
			Check: field.NonEmpty("Este campo es obligatorio"),
		},
		{Name: "satisfaction", Required: true, Check: field.NonEmpty("Este campo es obligatorio")},
		{Name: "needAnotherCredit", Required: true, Check: field.NonEmpty("Este campo es obligatorio")},
		{
			Name:  "creditIntendedUse",
			When:  func(r Record) bool { return equalsAny(r, "needAnotherCredit", "Sí") },
			Check: field.NonEmpty("Este campo es obligatorio"),
		},

		// Diagnóstico financiero
		{Name: "monthlyIncome", Required: true, Check: field.OnlyDigits("Ingresos mensuales")},
		{Name: "fixedCosts", Required: true, Check: field.OnlyDigits("Costos fijos mensuales")},
		{Name: "variableCosts", Required: true, Check: field.OnlyDigits("Costos variables mensuales")},
		{Name: "debtLevel", Required: true, Check: field.Percent("Nivel de endeudamiento (%)")},
		{Name: "creditUsedPercentage", Required: true, Check: field.Percent("Monto del crédito usado (%)")},
		{Name: "monthlyPayment", Required: true, Check: field.OnlyDigits("Pago mensual del crédito")},
		{Name: "emergencyReserve", Required: true, Check: field.OnlyDigits("Reserva de emergencia")},

		// Diagnóstico comercial
		{Name: "monthlyClients", Required: true, Check: field.OnlyDigits("Clientes mensuales")},
		{Name: "monthlySales", Required: true, Check: field.OnlyDigits("Ventas mensuales")},
		{Name: "totalSalesValue", Required: true, Check: field.OnlyDigits("Valor total de ventas")},
		{Name: "currentEmployees", Required: true, Check: field.NonEmpty("Este campo es obligatorio")},
		{Name: "salesChannels", Required: true, Check: field.MinItems(1, "Este campo es obligatorio")},
		{
			Name:  "otherSalesChannel",
			When:  func(r Record) bool { return contains(r, "salesChannels", TagOtroCanal) },
			Check: field.NonEmpty("Este campo es obligatorio"),
		},

		// Evidencia de la visita
		{Name: "visitEvidenceFile", Check: field.FileSet()},
	},
}
