// Package schema declares the aggregate record shapes (beneficiary, visit,
// user) as ordered rule lists over the primitive validators in form/field.
// Conditional requirements live here as refinements over the whole record,
// so validation does not depend on which UI branches were visited.
package schema

import "impulso-backend/internal/form/field"

// Record is a raw aggregate as bound from a form: string, []string or
// []field.File values keyed by canonical field name.
type Record map[string]any

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Rule validates one named field. Required marks unconditionally mandatory
// fields; When makes the requirement conditional on sibling values. Optional
// fields are still checked when a value is present.
type Rule struct {
	Name     string
	Required bool
	When     func(Record) bool
	Check    field.Func
}

// Schema is an ordered set of rules; Validate reports errors in declaration
// order, which drives first-error navigation in the orchestrator.
type Schema struct {
	Name  string
	Rules []Rule
}

func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []string:
		return len(t) > 0
	case []field.File:
		return len(t) > 0
	default:
		return true
	}
}

func (s *Schema) check(r Rule, rec Record) *FieldError {
	required := r.Required
	if r.When != nil {
		required = r.When(rec)
	}
	v := rec[r.Name]
	if !required && !present(v) {
		return nil
	}
	if r.Check == nil {
		return nil
	}
	if err := r.Check(v); err != nil {
		return &FieldError{Field: r.Name, Message: err.Error()}
	}
	return nil
}

// Validate runs every rule against the record and collects failures in
// declaration order.
func (s *Schema) Validate(rec Record) []FieldError {
	var errs []FieldError
	for _, r := range s.Rules {
		if fe := s.check(r, rec); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

// ValidateField runs the single rule named by name, for edit-in-place flows.
// Unknown fields validate clean.
func (s *Schema) ValidateField(rec Record, name string) *FieldError {
	for _, r := range s.Rules {
		if r.Name == name {
			return s.check(r, rec)
		}
	}
	return nil
}

// Has reports whether the schema declares the field.
func (s *Schema) Has(name string) bool {
	for _, r := range s.Rules {
		if r.Name == name {
			return true
		}
	}
	return false
}

// FieldNames returns the declared field names in order.
func (s *Schema) FieldNames() []string {
	out := make([]string, 0, len(s.Rules))
	for _, r := range s.Rules {
		out = append(out, r.Name)
	}
	return out
}

// ValidationError carries field errors across the usecase boundary; the
// first entry is the scroll/focus target.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validación fallida"
	}
	return e.Errors[0].Field + ": " + e.Errors[0].Message
}

// First is the first failing field in declaration order.
func (e *ValidationError) First() FieldError {
	if len(e.Errors) == 0 {
		return FieldError{}
	}
	return e.Errors[0]
}

func contains(rec Record, name, tag string) bool {
	items, ok := rec[name].([]string)
	if !ok {
		return false
	}
	for _, it := range items {
		if it == tag {
			return true
		}
	}
	return false
}

func equalsAny(rec Record, name string, values ...string) bool {
	s, ok := rec[name].(string)
	if !ok {
		return false
	}
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}
