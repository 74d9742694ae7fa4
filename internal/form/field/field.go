// Package field holds the primitive validators the aggregate schemas are
// composed from. Every validator is a pure function: it either accepts the
// value or returns a human-readable message, never panics and never does I/O.
package field

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"
)

// Func validates a single raw value.
type Func func(value any) error

var (
	reLetters = regexp.MustCompile(`^[A-Za-zÀ-ÿÑñ\s]+$`)
	reDigits  = regexp.MustCompile(`^\d+$`)
	reNIT     = regexp.MustCompile(`^\d{5,10}-\d$`)
	reDate    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reEmail   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// OnlyLetters accepts accented Latin letters and spaces, length >= 2.
func OnlyLetters(name string) Func {
	return func(v any) error {
		s, ok := asString(v)
		if !ok || s == "" {
			return fmt.Errorf("%s es obligatorio", name)
		}
		if utf8.RuneCountInString(s) < 2 {
			return fmt.Errorf("%s debe tener al menos 2 caracteres", name)
		}
		if !reLetters.MatchString(s) {
			return fmt.Errorf("%s solo puede contener letras y espacios", name)
		}
		return nil
	}
}

// OnlyDigits accepts non-empty strings of ASCII digits.
func OnlyDigits(name string) Func {
	return func(v any) error {
		s, ok := asString(v)
		if !ok || s == "" {
			return fmt.Errorf("%s no puede estar vacío", name)
		}
		if !reDigits.MatchString(s) {
			return fmt.Errorf("%s solo puede contener números", name)
		}
		return nil
	}
}

// Percent accepts digit strings whose numeric value is in [0, 100].
func Percent(name string) Func {
	digits := OnlyDigits(name)
	return func(v any) error {
		if err := digits(v); err != nil {
			return err
		}
		s, _ := asString(v)
		n, err := strconv.Atoi(s)
		if err != nil || n > 100 {
			return fmt.Errorf("%s debe estar entre 0 y 100", name)
		}
		return nil
	}
}

// TaxIDWithCheckDigit accepts a NIT in the format 123456789-0.
func TaxIDWithCheckDigit(name string) Func {
	return func(v any) error {
		s, ok := asString(v)
		if !ok || s == "" {
			return fmt.Errorf("%s es obligatorio", name)
		}
		if !reNIT.MatchString(s) {
			return fmt.Errorf("%s debe tener el formato 123456789-0", name)
		}
		return nil
	}
}

// Date accepts a calendar date in YYYY-MM-DD form.
func Date(name string) Func {
	return func(v any) error {
		s, ok := asString(v)
		if !ok || s == "" {
			return fmt.Errorf("%s es obligatoria", name)
		}
		if !reDate.MatchString(s) {
			return fmt.Errorf("%s debe tener el formato AAAA-MM-DD", name)
		}
		return nil
	}
}

// NonEmpty rejects empty or non-string values with the given message verbatim.
func NonEmpty(message string) Func {
	return func(v any) error {
		s, ok := asString(v)
		if !ok || s == "" {
			return fmt.Errorf("%s", message)
		}
		return nil
	}
}

// MinLen requires at least n characters.
func MinLen(n int, message string) Func {
	return func(v any) error {
		s, ok := asString(v)
		if !ok || utf8.RuneCountInString(s) < n {
			return fmt.Errorf("%s", message)
		}
		return nil
	}
}

// Email accepts email-shaped strings.
func Email(name string) Func {
	return func(v any) error {
		s, ok := asString(v)
		if !ok || s == "" {
			return fmt.Errorf("%s es obligatorio", name)
		}
		if !reEmail.MatchString(s) {
			return fmt.Errorf("Debe ser un correo válido")
		}
		return nil
	}
}

// MinItems requires a []string with at least n entries.
func MinItems(n int, message string) Func {
	return func(v any) error {
		items, ok := v.([]string)
		if !ok || len(items) < n {
			return fmt.Errorf("%s", message)
		}
		return nil
	}
}

// File describes an uploaded file, enough for constraint checks.
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	MIME string `json:"mime"`
}

const (
	maxFileCount  = 5
	maxFileSizeMB = 5
)

var acceptedMIME = map[string]bool{
	"image/jpeg":               true,
	"image/jpg":                true,
	"image/png":                true,
	"application/vnd.ms-excel": true,
	"application/msword":       true,
}

// FileSet validates an optional list of evidence files: at most 5 files,
// 5MB each, restricted MIME set. A nil or empty list is valid.
func FileSet() Func {
	return func(v any) error {
		if v == nil {
			return nil
		}
		files, ok := v.([]File)
		if !ok {
			return fmt.Errorf("El campo de archivos no es válido")
		}
		if len(files) > maxFileCount {
			return fmt.Errorf("No puedes subir más de %d archivos", maxFileCount)
		}
		for _, f := range files {
			if !acceptedMIME[f.MIME] {
				return fmt.Errorf("Todos los archivos deben ser JPG, JPEG, PNG, XLS o DOC")
			}
			if f.Size > maxFileSizeMB*1024*1024 {
				return fmt.Errorf("Cada archivo no debe exceder los %dMB", maxFileSizeMB)
			}
		}
		return nil
	}
}
