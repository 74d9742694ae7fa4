package beneficiary

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domain "impulso-backend/internal/domain/beneficiary"
	"impulso-backend/internal/domain/uow"
	domainVisit "impulso-backend/internal/domain/visit"
	"impulso-backend/internal/testutil/beneficiarymock"
	"impulso-backend/internal/testutil/uowmock"
	"impulso-backend/internal/testutil/visitmock"

	"impulso-backend/internal/form/schema"
	visituc "impulso-backend/internal/usecase/visit"
)

func validCreate() CreateInput {
	return CreateInput{
		FullName:           "María Fernanda",
		FirstSurname:       "Gómez",
		Gender:             "Femenino",
		DateOfBirth:        "1988-04-12",
		EducationalProfile: "Técnico",
		Ethnicity:          "Mestizo",
		NationalID:         "1032456789",
		PhoneNumber:        "3001234567",

		CompanyName:    "Panadería La Espiga",
		NIT:            "901234567-8",
		EconomicSector: "Comercio",
		MainSector:     "Alimentos",
		City:           "Bogotá",
		Address:        "Calle 12 # 34-56",

		ApprovedCreditValue: "5000000",
		DisbursementDate:    "2025-01-15",
		CreditDestination:   []string{"Capital de trabajo"},

		EvaluatorObservations: "Negocio estable, flujo de caja sano.",
		AdvisorID:             "asesor-1",
	}
}

func validFirstVisit() *visituc.Input {
	return &visituc.Input{
		Date:                   "2025-02-01",
		CreditUsedAsApproved:   "Sí",
		CreditUsageDescription: "Compra de horno",
		Improvements:           []string{"Aumento de ventas"},
		TimeToResults:          "2 meses",
		ResultsAsExpected:      "Sí",
		FinancialRecords:       "No",
		ResourceManager:        "El beneficiario",
		PaymentsOnSchedule:     "Sí",
		Satisfaction:           "Alta",
		NeedAnotherCredit:      "No",
		MonthlyIncome:          "1800000",
		FixedCosts:             "400000",
		VariableCosts:          "250000",
		DebtLevel:              "35",
		CreditUsedPercentage:   "90",
		MonthlyPayment:         "200000",
		EmergencyReserve:       "50000",
		MonthlyClients:         "80",
		MonthlySales:           "200",
		TotalSalesValue:        "2400000",
		CurrentEmployees:       "1",
		SalesChannels:          []string{"Punto de venta"},
	}
}

func TestCreate_PersistsBeneficiary(t *testing.T) {
	var created *domain.Beneficiary
	repo := &beneficiarymock.Repo{
		CreateFn: func(_ context.Context, b *domain.Beneficiary) error {
			created = b
			return nil
		},
	}
	uc := NewUsecase(repo, &visitmock.Repo{}, uowmock.New())

	b, err := uc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created == nil || created != b {
		t.Fatal("beneficiary not persisted")
	}
	if b.BeneficiaryID == "" {
		t.Fatal("public id not assigned")
	}
	if b.Estado != domain.EstadoActivo {
		t.Fatalf("estado = %q, want Activo", b.Estado)
	}
}

func TestCreate_ValidationErrorsInFormOrder(t *testing.T) {
	repo := &beneficiarymock.Repo{
		CreateFn: func(context.Context, *domain.Beneficiary) error {
			t.Fatal("Create called for an invalid intake")
			return nil
		},
	}
	uc := NewUsecase(repo, &visitmock.Repo{}, uowmock.New())

	in := validCreate()
	in.FullName = ""
	in.NIT = "123456789" // missing check digit

	_, err := uc.Create(context.Background(), in)
	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(ve.Errors) != 2 {
		t.Fatalf("errors = %+v", ve.Errors)
	}
	if ve.Errors[0].Field != "fullName" || ve.Errors[1].Field != "nit" {
		t.Fatalf("error order = %q, %q", ve.Errors[0].Field, ve.Errors[1].Field)
	}
	if ve.First().Field != "fullName" {
		t.Fatalf("First = %+v", ve.First())
	}
}

func TestCreate_WithFirstVisitInOneTx(t *testing.T) {
	var gotBeneficiary *domain.Beneficiary
	var gotVisit *domainVisit.Visit
	repo := &beneficiarymock.Repo{
		CreateFn: func(_ context.Context, b *domain.Beneficiary) error {
			b.ID = 42
			gotBeneficiary = b
			return nil
		},
	}
	visits := &visitmock.Repo{
		CreateFn: func(_ context.Context, v *domainVisit.Visit) error {
			gotVisit = v
			return nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Beneficiaries: repo, Visits: visits}, nil)
	uc := NewUsecase(repo, visits, tx)

	in := validCreate()
	in.FirstVisit = validFirstVisit()

	if _, err := uc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if gotBeneficiary == nil || gotVisit == nil {
		t.Fatal("intake did not persist both records")
	}
	if gotVisit.BeneficiaryRef != 42 || gotVisit.Seq != 1 {
		t.Fatalf("visit = ref %d seq %d, want 42/1", gotVisit.BeneficiaryRef, gotVisit.Seq)
	}
	if gotVisit.AdvisorID != "asesor-1" {
		t.Fatalf("advisor = %q", gotVisit.AdvisorID)
	}
}

func TestCreate_FirstVisitErrorsFollowBeneficiaryErrors(t *testing.T) {
	uc := NewUsecase(&beneficiarymock.Repo{}, &visitmock.Repo{}, uowmock.New())

	in := validCreate()
	in.PhoneNumber = "abc"
	fv := validFirstVisit()
	fv.Date = ""
	in.FirstVisit = fv

	_, err := uc.Create(context.Background(), in)
	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(ve.Errors) != 2 || ve.Errors[0].Field != "phoneNumber" || ve.Errors[1].Field != "date" {
		t.Fatalf("errors = %+v", ve.Errors)
	}
}

func TestGet_IncludesVisitHistory(t *testing.T) {
	repo := &beneficiarymock.Repo{
		GetByPublicIDFn: func(_ context.Context, id string) (*domain.Beneficiary, error) {
			if id != "b-1" {
				return nil, domain.ErrNotFound
			}
			return &domain.Beneficiary{ID: 9, BeneficiaryID: "b-1"}, nil
		},
	}
	visits := &visitmock.Repo{
		ListByBeneficiaryFn: func(_ context.Context, ref uint64) ([]domainVisit.Visit, error) {
			if ref != 9 {
				t.Fatalf("listed ref = %d", ref)
			}
			return []domainVisit.Visit{{Seq: 1}, {Seq: 2}}, nil
		},
	}
	uc := NewUsecase(repo, visits, uowmock.New())

	d, err := uc.Get(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.Beneficiary.BeneficiaryID != "b-1" || len(d.Visits) != 2 {
		t.Fatalf("detail = %+v", d)
	}

	if _, err := uc.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown id = %v", err)
	}
}

func seeded(n int) *beneficiarymock.Repo {
	all := make([]domain.Beneficiary, 0, n)
	for i := 0; i < n; i++ {
		all = append(all, domain.Beneficiary{
			ID:           uint64(i + 1),
			FullName:     fmt.Sprintf("Nombre%02d", i),
			FirstSurname: "Prueba",
			NationalID:   fmt.Sprintf("10%08d", i),
			NIT:          fmt.Sprintf("9%08d-1", i),
		})
	}
	return &beneficiarymock.Repo{
		ListFn: func(context.Context) ([]domain.Beneficiary, error) { return all, nil },
	}
}

func TestList_FiltersAndPaginates(t *testing.T) {
	uc := NewUsecase(seeded(25), &visitmock.Repo{}, uowmock.New())
	ctx := context.Background()

	p, err := uc.List(ctx, Criteria{}, 10, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if p.Total != 25 || p.PageCount != 3 || p.PageIndex != 1 || len(p.Items) != 10 {
		t.Fatalf("page = %+v", p)
	}
	if p.Items[0].FullName != "Nombre10" {
		t.Fatalf("first item = %q", p.Items[0].FullName)
	}

	// case-insensitive name filter narrows to one match
	p, err = uc.List(ctx, Criteria{FullName: "nombre07"}, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if p.Total != 1 || len(p.Items) != 1 || p.Items[0].FullName != "Nombre07" {
		t.Fatalf("filtered page = %+v", p)
	}
}

func TestList_OutOfRangePageResets(t *testing.T) {
	uc := NewUsecase(seeded(25), &visitmock.Repo{}, uowmock.New())

	p, err := uc.List(context.Background(), Criteria{}, 10, 7)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if p.PageIndex != 0 || len(p.Items) != 10 || p.Items[0].FullName != "Nombre00" {
		t.Fatalf("page = %+v", p)
	}
}

func TestListAll_AttachesVisits(t *testing.T) {
	visits := &visitmock.Repo{
		ListByBeneficiaryFn: func(_ context.Context, ref uint64) ([]domainVisit.Visit, error) {
			if ref == 1 {
				return []domainVisit.Visit{{Seq: 1}}, nil
			}
			return nil, nil
		},
	}
	uc := NewUsecase(seeded(3), visits, uowmock.New())

	details, err := uc.ListAll(context.Background(), Criteria{})
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(details) != 3 {
		t.Fatalf("details = %d", len(details))
	}
	if len(details[0].Visits) != 1 || len(details[1].Visits) != 0 {
		t.Fatalf("visit attachment = %d/%d", len(details[0].Visits), len(details[1].Visits))
	}
}

func updatable(t *testing.T) (*Usecase, *domain.Beneficiary, *bool) {
	t.Helper()
	b := &domain.Beneficiary{
		ID:            1,
		BeneficiaryID: "b-1",
		FullName:      "Carlos",
		FirstSurname:  "Ruiz",
		NationalID:    "1032456789",
		PhoneNumber:   "3001234567",
		Estado:        domain.EstadoActivo,
	}
	saved := false
	repo := &beneficiarymock.Repo{
		GetByPublicIDFn: func(_ context.Context, id string) (*domain.Beneficiary, error) {
			if id != "b-1" {
				return nil, domain.ErrNotFound
			}
			return b, nil
		},
		SaveFn: func(context.Context, *domain.Beneficiary) error {
			saved = true
			return nil
		},
	}
	return NewUsecase(repo, &visitmock.Repo{}, uowmock.New()), b, &saved
}

func TestUpdateField_Saves(t *testing.T) {
	uc, b, saved := updatable(t)

	got, err := uc.UpdateField(context.Background(), "b-1", "phoneNumber", "3109876543")
	if err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if got.PhoneNumber != "3109876543" || b.PhoneNumber != "3109876543" {
		t.Fatalf("phone = %q", got.PhoneNumber)
	}
	if !*saved {
		t.Fatal("Save not called")
	}
}

func TestUpdateField_InvalidValueWritesNothing(t *testing.T) {
	uc, b, saved := updatable(t)

	_, err := uc.UpdateField(context.Background(), "b-1", "phoneNumber", "no-es-numero")
	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if ve.First().Field != "phoneNumber" {
		t.Fatalf("First = %+v", ve.First())
	}
	if *saved || b.PhoneNumber != "3001234567" {
		t.Fatal("invalid value reached the entity")
	}
}

func TestUpdateField_Estado(t *testing.T) {
	uc, b, _ := updatable(t)
	ctx := context.Background()

	if _, err := uc.UpdateField(ctx, "b-1", "estado", "Inactivo"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if b.Estado != domain.EstadoInactivo {
		t.Fatalf("estado = %q", b.Estado)
	}

	_, err := uc.UpdateField(ctx, "b-1", "estado", "Suspendido")
	var ve *schema.ValidationError
	if !errors.As(err, &ve) || ve.First().Field != "estado" {
		t.Fatalf("bad estado = %v", err)
	}
}

func TestUpdateField_CreditDestinationCoercion(t *testing.T) {
	uc, b, _ := updatable(t)

	// JSON arrays bind as []any
	if _, err := uc.UpdateField(context.Background(), "b-1", "creditDestination", []any{"Maquinaria"}); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if len(b.CreditDestination) != 1 || b.CreditDestination[0] != "Maquinaria" {
		t.Fatalf("creditDestination = %v", b.CreditDestination)
	}

	_, err := uc.UpdateField(context.Background(), "b-1", "creditDestination", []any{1, 2})
	var ve *schema.ValidationError
	if !errors.As(err, &ve) || ve.First().Field != "creditDestination" {
		t.Fatalf("non-string items = %v", err)
	}

	_, err = uc.UpdateField(context.Background(), "b-1", "creditDestination", []any{})
	if !errors.As(err, &ve) || ve.First().Field != "creditDestination" {
		t.Fatalf("empty selection = %v", err)
	}
}

func TestUpdateField_UnknownField(t *testing.T) {
	uc, _, _ := updatable(t)
	if _, err := uc.UpdateField(context.Background(), "b-1", "saldo", "1"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
}

func TestUpdateField_UnknownBeneficiary(t *testing.T) {
	uc, _, _ := updatable(t)
	if _, err := uc.UpdateField(context.Background(), "nope", "phoneNumber", "3"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
