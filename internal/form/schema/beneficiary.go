package schema

import "impulso-backend/internal/form/field"

// Tag values that trigger conditional requirements.
const (
	TagOtroDestino = "Otros"
	TagOtraMejora  = "Otras"
	TagOtroCanal   = "Otros"
)

// Beneficiary is the intake aggregate: personal, company and credit data plus
// the evaluator's notes. Field order matches the intake form, first section
// first.
var Beneficiary = &Schema{
	Name: "beneficiary",
	Rules: []Rule{
		// Información personal
		{Name: "fullName", Required: true, Check: field.OnlyLetters("El nombre completo")},
		{Name: "firstSurname", Required: true, Check: field.OnlyLetters("El primer apellido")},
		{Name: "secondSurname", Check: field.OnlyLetters("El segundo apellido")},
		{Name: "gender", Required: true, Check: field.NonEmpty("El género es obligatorio")},
		{Name: "dateOfBirth", Required: true, Check: field.Date("La fecha de nacimiento")},
		{Name: "educationalProfile", Required: true, Check: field.NonEmpty("El perfil educativo es obligatorio")},
		{Name: "ethnicity", Required: true, Check: field.NonEmpty("La étnia es obligatoria")},
		{Name: "nationalId", Required: true, Check: field.OnlyDigits("El número de cédula")},
		{Name: "phoneNumber", Required: true, Check: field.OnlyDigits("El número de contacto")},

		// Información de la empresa
		{Name: "companyName", Required: true, Check: field.MinLen(2, "El nombre de la empresa es obligatorio")},
		{Name: "nit", Required: true, Check: field.TaxIDWithCheckDigit("El número de NIT")},
		{Name: "economicSector", Required: true, Check: field.NonEmpty("El sector económico es obligatorio")},
		{Name: "mainSector", Required: true, Check: field.NonEmpty("La actividad económica es obligatoria")},
		{Name: "city", Required: true, Check: field.OnlyLetters("La ciudad")},
		{Name: "address", Required: true, Check: field.MinLen(2, "La dirección es obligatoria")},

		// Información del crédito
		{Name: "approvedCreditValue", Required: true, Check: field.OnlyDigits("El valor del crédito")},
		{Name: "disbursementDate", Required: true, Check: field.Date("La fecha de desembolso")},
		{Name: "creditDestination", Required: true, Check: field.MinItems(1, "Debes seleccionar al menos una opción de destino")},
		{
			Name:  "otherCreditDestination",
			When:  func(r Record) bool { return contains(r, "creditDestination", TagOtroDestino) },
			Check: field.NonEmpty("Este campo es obligatorio"),
		},

		// Observaciones del evaluador
		{Name: "evaluatorObservations", Required: true, Check: field.NonEmpty("Las observaciones del evaluador son obligatorias")},
	},
}
