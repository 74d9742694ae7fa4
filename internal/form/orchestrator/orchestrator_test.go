package orchestrator

import (
	"context"
	"errors"
	"testing"

	"impulso-backend/internal/form/field"
	"impulso-backend/internal/form/schema"
)

var miniSchema = &schema.Schema{
	Name: "mini",
	Rules: []schema.Rule{
		{Name: "nombre", Required: true, Check: field.OnlyLetters("El nombre")},
		{Name: "monto", Required: true, Check: field.OnlyDigits("El monto")},
	},
}

var extraSchema = &schema.Schema{
	Name: "extra",
	Rules: []schema.Rule{
		{Name: "fecha", Required: true, Check: field.Date("La fecha")},
	},
}

func miniSections() []Section {
	return []Section{
		{Name: "Datos", Fields: []string{"nombre", "monto"}, Expanded: true},
		{Name: "Extra", Fields: []string{"fecha"}},
	}
}

func validRecords() (schema.Record, schema.Record) {
	return schema.Record{"nombre": "Ana", "monto": "1000"},
		schema.Record{"fecha": "2025-06-01"}
}

func noopPersist(context.Context) error { return nil }

func TestForm_SubmitHappyPath(t *testing.T) {
	r1, r2 := validRecords()
	f := New(miniSections(),
		Aggregate{Schema: miniSchema, Record: r1},
		Aggregate{Schema: extraSchema, Record: r2},
	)

	persisted := false
	err := f.Submit(context.Background(), func(context.Context) error {
		persisted = true
		return nil
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !persisted {
		t.Fatal("persist not called")
	}
	if f.State() != StateSubmitted {
		t.Fatalf("state = %v, want submitted", f.State())
	}
}

func TestForm_ValidationFailureOrderAndFirstError(t *testing.T) {
	r1, r2 := validRecords()
	r1["nombre"] = ""    // first aggregate, first rule
	r2["fecha"] = "ayer" // second aggregate

	f := New(miniSections(),
		Aggregate{Schema: miniSchema, Record: r1},
		Aggregate{Schema: extraSchema, Record: r2},
	)

	err := f.Submit(context.Background(), noopPersist)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if f.State() != StateErrorsPresent {
		t.Fatalf("state = %v, want errors_present", f.State())
	}
	errs := f.Errors()
	if len(errs) != 2 || errs[0].Field != "nombre" || errs[1].Field != "fecha" {
		t.Fatalf("errors out of aggregate order: %+v", errs)
	}
	first, ok := f.FirstError()
	if !ok || first.Field != "nombre" {
		t.Fatalf("FirstError = %+v, want nombre", first)
	}
}

func TestForm_ErrorExpandsOwningSection(t *testing.T) {
	r1, r2 := validRecords()
	r2["fecha"] = "" // lives in the collapsed "Extra" section

	f := New(miniSections(),
		Aggregate{Schema: miniSchema, Record: r1},
		Aggregate{Schema: extraSchema, Record: r2},
	)
	_ = f.Submit(context.Background(), noopPersist)

	sections := f.Sections()
	if !sections[1].Expanded {
		t.Fatal("section with the failing field stayed collapsed")
	}
}

func TestForm_SetReturnsToEditingAndClearsNothingElse(t *testing.T) {
	r1, r2 := validRecords()
	r1["nombre"] = ""
	f := New(miniSections(),
		Aggregate{Schema: miniSchema, Record: r1},
		Aggregate{Schema: extraSchema, Record: r2},
	)
	_ = f.Submit(context.Background(), noopPersist)

	if err := f.Set(0, "nombre", "Ana"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if f.State() != StateEditing {
		t.Fatalf("state after Set = %v, want editing", f.State())
	}
	if err := f.Submit(context.Background(), noopPersist); err != nil {
		t.Fatalf("resubmit after fix: %v", err)
	}
}

func TestForm_PersistFailureAllowsResubmit(t *testing.T) {
	r1, r2 := validRecords()
	f := New(miniSections(),
		Aggregate{Schema: miniSchema, Record: r1},
		Aggregate{Schema: extraSchema, Record: r2},
	)

	boom := errors.New("db down")
	err := f.Submit(context.Background(), func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped persist error", err)
	}
	if f.State() != StateSubmitError {
		t.Fatalf("state = %v, want submit_error", f.State())
	}

	// the same form can be submitted again once the backend recovers
	if err := f.Submit(context.Background(), noopPersist); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if f.State() != StateSubmitted {
		t.Fatalf("state = %v, want submitted", f.State())
	}
}

func TestForm_RejectsAfterSubmitted(t *testing.T) {
	r1, r2 := validRecords()
	f := New(miniSections(),
		Aggregate{Schema: miniSchema, Record: r1},
		Aggregate{Schema: extraSchema, Record: r2},
	)
	if err := f.Submit(context.Background(), noopPersist); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := f.Set(0, "nombre", "Otro"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("Set after submit = %v, want ErrAlreadySubmitted", err)
	}
	if err := f.Submit(context.Background(), noopPersist); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("Submit after submit = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSections_Layouts(t *testing.T) {
	bs := BeneficiarySections()
	if len(bs) != 4 || !bs[0].Expanded || bs[1].Expanded {
		t.Fatalf("beneficiary sections: %+v", bs)
	}
	vs := VisitSections(false)
	if len(vs) != 4 || vs[0].Expanded {
		t.Fatalf("visit sections: %+v", vs)
	}
	if VisitSections(true)[0].Expanded != true {
		t.Fatal("firstExpanded not honored")
	}
}
