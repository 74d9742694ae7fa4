package http

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"impulso-backend/internal/form/schema"
)

// ErrorResponse is the error payload for every endpoint. Details carries
// per-field messages when the failure is a validation one.
type ErrorResponse struct {
	Error        string              `json:"error"`
	Details      []schema.FieldError `json:"details,omitempty"`
	AttemptsLeft *int                `json:"attemptsLeft,omitempty"`
}

var (
	reHex32  = regexp.MustCompile(`^[a-f0-9]{32}$`)
	reDigits = regexp.MustCompile(`^[0-9]+$`)
)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// user id = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return reHex32.MatchString(fl.Field().String())
	})
	// SMS code = digits only
	_ = v.RegisterValidation("digitstr", func(fl validator.FieldLevel) bool {
		return reDigits.MatchString(fl.Field().String())
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// ToFieldErrors maps validator.ValidationErrors onto the same field/message
// shape the form schemas produce.
func ToFieldErrors(err error) []schema.FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []schema.FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]schema.FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, schema.FieldError{Field: field, Message: "Este campo es obligatorio"})
		case "hex32":
			out = append(out, schema.FieldError{Field: field, Message: "Debe ser un identificador hexadecimal de 32 caracteres"})
		case "digitstr":
			out = append(out, schema.FieldError{Field: field, Message: "Solo se permiten números"})
		case "uuid4":
			out = append(out, schema.FieldError{Field: field, Message: "Debe ser un identificador válido"})
		case "len":
			out = append(out, schema.FieldError{Field: field, Message: "Debe tener " + e.Param() + " caracteres"})
		default:
			out = append(out, schema.FieldError{Field: field, Message: "Valor inválido"})
		}
	}
	return out
}
