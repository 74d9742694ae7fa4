package schema

import "impulso-backend/internal/form/field"

// User is the account aggregate. Optional profile fields are persisted as
// NULL when absent; when present they are still format-checked.
var User = &Schema{
	Name: "user",
	Rules: []Rule{
		{Name: "nombres", Required: true, Check: field.OnlyLetters("Nombres")},
		{Name: "apellidos", Required: true, Check: field.OnlyLetters("Apellidos")},
		{Name: "username", Required: true, Check: field.Email("El nombre de usuario")},
		{Name: "email", Required: true, Check: field.Email("El correo electrónico")},
		{Name: "documento", Required: true, Check: field.OnlyDigits("Número de documento")},
		{Name: "password", Required: true, Check: field.MinLen(6, "La contraseña debe tener al menos 6 caracteres")},
		{Name: "celular", Required: true, Check: field.OnlyDigits("Número de celular")},
		{Name: "rol", Required: true, Check: field.NonEmpty("El rol es obligatorio")},
		{Name: "estado", Required: true, Check: field.NonEmpty("El estado es obligatorio")},

		// Perfil opcional
		{Name: "direccion"},
		{Name: "ciudad", Check: field.OnlyLetters("La ciudad")},
		{Name: "departamento", Check: field.OnlyLetters("El departamento")},
		{Name: "profesion"},
		{Name: "niveleducativo"},
		{Name: "fechanacimiento", Check: field.Date("La fecha de nacimiento")},
	},
}
