package beneficiary

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domain "impulso-backend/internal/domain/beneficiary"
	domainVisit "impulso-backend/internal/domain/visit"
	"impulso-backend/internal/domain/uow"
	"impulso-backend/internal/form/orchestrator"
	"impulso-backend/internal/form/schema"
	"impulso-backend/internal/listview"
	visituc "impulso-backend/internal/usecase/visit"
)

var (
	// ErrUnknownField: PATCH of a field the schema does not declare.
	ErrUnknownField = errors.New("campo desconocido")
)

// CreateInput is the intake aggregate. FirstVisit, when present, is the
// co-located visit captured on the same form; both are validated as one unit
// and persisted in one transaction.
type CreateInput struct {
	FullName           string `json:"fullName"`
	FirstSurname       string `json:"firstSurname"`
	SecondSurname      string `json:"secondSurname"`
	Gender             string `json:"gender"`
	DateOfBirth        string `json:"dateOfBirth"`
	EducationalProfile string `json:"educationalProfile"`
	Ethnicity          string `json:"ethnicity"`
	NationalID         string `json:"nationalId"`
	PhoneNumber        string `json:"phoneNumber"`

	CompanyName    string `json:"companyName"`
	NIT            string `json:"nit"`
	EconomicSector string `json:"economicSector"`
	MainSector     string `json:"mainSector"`
	City           string `json:"city"`
	Address        string `json:"address"`

	ApprovedCreditValue    string   `json:"approvedCreditValue"`
	DisbursementDate       string   `json:"disbursementDate"`
	CreditDestination      []string `json:"creditDestination"`
	OtherCreditDestination string   `json:"otherCreditDestination"`

	EvaluatorObservations string `json:"evaluatorObservations"`

	AdvisorID  string         `json:"advisorId"`
	FirstVisit *visituc.Input `json:"firstVisit"`
}

func (in CreateInput) record() schema.Record {
	return schema.Record{
		"fullName":               in.FullName,
		"firstSurname":           in.FirstSurname,
		"secondSurname":          in.SecondSurname,
		"gender":                 in.Gender,
		"dateOfBirth":            in.DateOfBirth,
		"educationalProfile":     in.EducationalProfile,
		"ethnicity":              in.Ethnicity,
		"nationalId":             in.NationalID,
		"phoneNumber":            in.PhoneNumber,
		"companyName":            in.CompanyName,
		"nit":                    in.NIT,
		"economicSector":         in.EconomicSector,
		"mainSector":             in.MainSector,
		"city":                   in.City,
		"address":                in.Address,
		"approvedCreditValue":    in.ApprovedCreditValue,
		"disbursementDate":       in.DisbursementDate,
		"creditDestination":      in.CreditDestination,
		"otherCreditDestination": in.OtherCreditDestination,
		"evaluatorObservations":  in.EvaluatorObservations,
	}
}

func (in CreateInput) toEntity() *domain.Beneficiary {
	return &domain.Beneficiary{
		BeneficiaryID:          uuid.NewString(),
		FullName:               in.FullName,
		FirstSurname:           in.FirstSurname,
		SecondSurname:          in.SecondSurname,
		Gender:                 in.Gender,
		DateOfBirth:            in.DateOfBirth,
		EducationalProfile:     in.EducationalProfile,
		Ethnicity:              in.Ethnicity,
		NationalID:             in.NationalID,
		PhoneNumber:            in.PhoneNumber,
		CompanyName:            in.CompanyName,
		NIT:                    in.NIT,
		EconomicSector:         in.EconomicSector,
		MainSector:             in.MainSector,
		City:                   in.City,
		Address:                in.Address,
		ApprovedCreditValue:    in.ApprovedCreditValue,
		DisbursementDate:       in.DisbursementDate,
		CreditDestination:      in.CreditDestination,
		OtherCreditDestination: in.OtherCreditDestination,
		EvaluatorObservations:  in.EvaluatorObservations,
		Estado:                 domain.EstadoActivo,
	}
}

// Detail is a beneficiary with their visit history.
type Detail struct {
	Beneficiary domain.Beneficiary  `json:"beneficiary"`
	Visits      []domainVisit.Visit `json:"visits"`
}

// Criteria filters the list screen; blank fields match everything.
type Criteria struct {
	FullName string `json:"fullName" query:"fullName"`
	Cedula   string `json:"cedula" query:"cedula"`
	NIT      string `json:"nit" query:"nit"`
}

// Matches is the list predicate: case-insensitive substring on the names,
// plain substring on cédula and NIT.
func Matches(b domain.Beneficiary, c Criteria) bool {
	if c.FullName != "" {
		names := strings.ToLower(b.FullName + " " + b.FirstSurname + " " + b.SecondSurname)
		if !strings.Contains(names, strings.ToLower(c.FullName)) {
			return false
		}
	}
	if c.Cedula != "" && !strings.Contains(b.NationalID, c.Cedula) {
		return false
	}
	if c.NIT != "" && !strings.Contains(b.NIT, c.NIT) {
		return false
	}
	return true
}

// Page is one list screen's worth of beneficiaries.
type Page struct {
	Items     []domain.Beneficiary `json:"items"`
	PageCount int                  `json:"pageCount"`
	PageIndex int                  `json:"pageIndex"`
	Total     int                  `json:"total"`
}

type Usecase struct {
	repo   domain.Repository
	visits domainVisit.Repository
	uow    uow.UnitOfWork
}

func NewUsecase(repo domain.Repository, visits domainVisit.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: repo, visits: visits, uow: tx}
}

// Create validates the intake (beneficiary plus optional first visit) as one
// unit and persists it. The first visit, unlike later advisories, needs no
// SMS confirmation: the beneficiary is present at intake.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domain.Beneficiary, error) {
	sections := orchestrator.BeneficiarySections()
	aggregates := []orchestrator.Aggregate{{Schema: schema.Beneficiary, Record: in.record()}}
	if in.FirstVisit != nil {
		sections = append(sections, orchestrator.VisitSections(false)...)
		aggregates = append(aggregates, orchestrator.Aggregate{Schema: schema.Visit, Record: in.FirstVisit.Record()})
	}

	f := orchestrator.New(sections, aggregates...)
	b := in.toEntity()
	err := f.Submit(ctx, func(ctx context.Context) error {
		if in.FirstVisit == nil {
			return u.repo.Create(ctx, b)
		}
		return u.uow.WithinTx(ctx, func(r uow.Repos) error {
			if err := r.Beneficiaries.Create(ctx, b); err != nil {
				return err
			}
			return r.Visits.Create(ctx, in.FirstVisit.ToEntity(b.ID, 1, in.AdvisorID))
		})
	})
	if errors.Is(err, orchestrator.ErrValidation) {
		return nil, &schema.ValidationError{Errors: f.Errors()}
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns the beneficiary with their ordered visit history.
func (u *Usecase) Get(ctx context.Context, beneficiaryID string) (*Detail, error) {
	b, err := u.repo.GetByPublicID(ctx, beneficiaryID)
	if err != nil {
		return nil, err
	}
	visits, err := u.visits.ListByBeneficiary(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return &Detail{Beneficiary: *b, Visits: visits}, nil
}

// List filters and paginates the full beneficiary list in memory.
func (u *Usecase) List(ctx context.Context, crit Criteria, pageSize, pageIndex int) (*Page, error) {
	all, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := listview.Filter(all, crit, Matches)
	items, pageCount := listview.Paginate(filtered, pageSize, pageIndex)
	if pageIndex >= pageCount {
		pageIndex = 0
		items, pageCount = listview.Paginate(filtered, pageSize, pageIndex)
	}
	return &Page{Items: items, PageCount: pageCount, PageIndex: pageIndex, Total: len(filtered)}, nil
}

// ListAll returns every matching beneficiary with their visit history, no
// pagination. The Excel export walks the full filtered list.
func (u *Usecase) ListAll(ctx context.Context, crit Criteria) ([]Detail, error) {
	all, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := listview.Filter(all, crit, Matches)
	details := make([]Detail, 0, len(filtered))
	for _, b := range filtered {
		visits, err := u.visits.ListByBeneficiary(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, Detail{Beneficiary: b, Visits: visits})
	}
	return details, nil
}

func asStrings(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			s, ok := it.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// UpdateField edits one field on a persisted beneficiary, running
// single-field validation only. A failure is returned as a ValidationError
// for the caller's blocking dialog; nothing is written in that case.
func (u *Usecase) UpdateField(ctx context.Context, beneficiaryID, name string, value any) (*domain.Beneficiary, error) {
	b, err := u.repo.GetByPublicID(ctx, beneficiaryID)
	if err != nil {
		return nil, err
	}

	if name == "estado" {
		s, _ := value.(string)
		if s != string(domain.EstadoActivo) && s != string(domain.EstadoInactivo) {
			return nil, &schema.ValidationError{Errors: []schema.FieldError{
				{Field: "estado", Message: "El estado debe ser Activo o Inactivo"},
			}}
		}
		b.Estado = domain.Estado(s)
		return b, u.repo.Save(ctx, b)
	}

	if !schema.Beneficiary.Has(name) {
		return nil, ErrUnknownField
	}
	if name == "creditDestination" {
		items, ok := asStrings(value)
		if !ok {
			return nil, &schema.ValidationError{Errors: []schema.FieldError{
				{Field: name, Message: "Debes seleccionar al menos una opción de destino"},
			}}
		}
		value = items
	}

	rec := recordFromEntity(b)
	rec[name] = value
	if fe := schema.Beneficiary.ValidateField(rec, name); fe != nil {
		return nil, &schema.ValidationError{Errors: []schema.FieldError{*fe}}
	}
	applyField(b, name, value)
	return b, u.repo.Save(ctx, b)
}

func recordFromEntity(b *domain.Beneficiary) schema.Record {
	return schema.Record{
		"fullName":               b.FullName,
		"firstSurname":           b.FirstSurname,
		"secondSurname":          b.SecondSurname,
		"gender":                 b.Gender,
		"dateOfBirth":            b.DateOfBirth,
		"educationalProfile":     b.EducationalProfile,
		"ethnicity":              b.Ethnicity,
		"nationalId":             b.NationalID,
		"phoneNumber":            b.PhoneNumber,
		"companyName":            b.CompanyName,
		"nit":                    b.NIT,
		"economicSector":         b.EconomicSector,
		"mainSector":             b.MainSector,
		"city":                   b.City,
		"address":                b.Address,
		"approvedCreditValue":    b.ApprovedCreditValue,
		"disbursementDate":       b.DisbursementDate,
		"creditDestination":      b.CreditDestination,
		"otherCreditDestination": b.OtherCreditDestination,
		"evaluatorObservations":  b.EvaluatorObservations,
	}
}

func applyField(b *domain.Beneficiary, name string, value any) {
	s, _ := value.(string)
	switch name {
	case "fullName":
		b.FullName = s
	case "firstSurname":
		b.FirstSurname = s
	case "secondSurname":
		b.SecondSurname = s
	case "gender":
		b.Gender = s
	case "dateOfBirth":
		b.DateOfBirth = s
	case "educationalProfile":
		b.EducationalProfile = s
	case "ethnicity":
		b.Ethnicity = s
	case "nationalId":
		b.NationalID = s
	case "phoneNumber":
		b.PhoneNumber = s
	case "companyName":
		b.CompanyName = s
	case "nit":
		b.NIT = s
	case "economicSector":
		b.EconomicSector = s
	case "mainSector":
		b.MainSector = s
	case "city":
		b.City = s
	case "address":
		b.Address = s
	case "approvedCreditValue":
		b.ApprovedCreditValue = s
	case "disbursementDate":
		b.DisbursementDate = s
	case "creditDestination":
		if items, ok := value.([]string); ok {
			b.CreditDestination = items
		}
	case "otherCreditDestination":
		b.OtherCreditDestination = s
	case "evaluatorObservations":
		b.EvaluatorObservations = s
	}
}
