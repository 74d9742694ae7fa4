// Package orchestrator owns the aggregate state of an in-progress form:
// one or more co-located aggregates validated as a single unit, collapsible
// sections, and the submission state machine.
package orchestrator

import (
	"context"
	"errors"

	"impulso-backend/internal/form/schema"
)

// State is the submission lifecycle of a form.
type State int

const (
	StateEditing State = iota
	StateValidating
	StateErrorsPresent
	StateValid
	StateSubmitting
	StateSubmitError
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateErrorsPresent:
		return "errors_present"
	case StateValid:
		return "valid"
	case StateSubmitting:
		return "submitting"
	case StateSubmitError:
		return "submit_error"
	case StateSubmitted:
		return "submitted"
	}
	return "unknown"
}

var (
	// ErrValidation signals field errors; inspect Errors() and FirstError().
	ErrValidation = errors.New("el formulario tiene errores de validación")
	// ErrSubmitInFlight rejects re-entry while a submission is running.
	ErrSubmitInFlight = errors.New("ya hay un envío en curso")
	// ErrAlreadySubmitted rejects edits or re-submission of a finished form.
	ErrAlreadySubmitted = errors.New("el formulario ya fue enviado")
)

// Section is a named, ordered grouping of fields that can be collapsed in
// the UI. Sections expand automatically when one of their fields errors.
type Section struct {
	Name     string
	Fields   []string
	Expanded bool
}

// Aggregate pairs a schema with the record being edited under it.
type Aggregate struct {
	Schema *schema.Schema
	Record schema.Record
}

// Form drives validation and submission over its aggregates. Aggregate and
// section order is declaration order; error reporting preserves it.
type Form struct {
	aggregates []Aggregate
	sections   []Section
	state      State
	errs       []schema.FieldError
}

func New(sections []Section, aggregates ...Aggregate) *Form {
	return &Form{aggregates: aggregates, sections: sections, state: StateEditing}
}

func (f *Form) State() State                { return f.state }
func (f *Form) Sections() []Section         { return f.sections }
func (f *Form) Errors() []schema.FieldError { return f.errs }
func (f *Form) Aggregates() []Aggregate     { return f.aggregates }

// Set writes a raw field value on one aggregate without validating it and
// returns the form to Editing. Writes are rejected once a submission is in
// flight or done.
func (f *Form) Set(aggregate int, name string, value any) error {
	switch f.state {
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateSubmitted:
		return ErrAlreadySubmitted
	}
	if aggregate < 0 || aggregate >= len(f.aggregates) {
		return errors.New("aggregate fuera de rango")
	}
	f.aggregates[aggregate].Record[name] = value
	f.state = StateEditing
	return nil
}

// Submit validates every aggregate; on success it runs persist under the
// caller's context. On validation failure the erroring sections are expanded
// and ErrValidation is returned. A persist failure leaves the form in
// SubmitError so the user can correct and resubmit; it is never retried here.
func (f *Form) Submit(ctx context.Context, persist func(context.Context) error) error {
	switch f.state {
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateSubmitted:
		return ErrAlreadySubmitted
	}

	f.state = StateValidating
	f.errs = nil
	for _, a := range f.aggregates {
		f.errs = append(f.errs, a.Schema.Validate(a.Record)...)
	}
	if len(f.errs) > 0 {
		f.state = StateErrorsPresent
		f.expandErrorSections()
		return ErrValidation
	}
	f.state = StateValid

	f.state = StateSubmitting
	if err := persist(ctx); err != nil {
		f.state = StateSubmitError
		return err
	}
	f.state = StateSubmitted
	return nil
}

// FirstError returns the first validation error in schema declaration order,
// first section first: the scroll-into-view and focus target.
func (f *Form) FirstError() (schema.FieldError, bool) {
	if len(f.errs) == 0 {
		return schema.FieldError{}, false
	}
	return f.errs[0], true
}

func (f *Form) expandErrorSections() {
	failing := make(map[string]bool, len(f.errs))
	for _, e := range f.errs {
		failing[e.Field] = true
	}
	for i := range f.sections {
		for _, name := range f.sections[i].Fields {
			if failing[name] {
				f.sections[i].Expanded = true
				break
			}
		}
	}
}
