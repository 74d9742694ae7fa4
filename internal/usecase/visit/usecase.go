package visit

import (
	"context"
	"errors"
	"sync"
	"time"

	"impulso-backend/internal/domain/beneficiary"
	domainVisit "impulso-backend/internal/domain/visit"
	"impulso-backend/internal/domain/uow"
	"impulso-backend/internal/form/field"
	"impulso-backend/internal/form/gate"
	"impulso-backend/internal/form/orchestrator"
	"impulso-backend/internal/form/schema"
	"impulso-backend/internal/stage"
	"impulso-backend/pkg/id"
)

var (
	// ErrNoPending: confirmation or cancellation without a staged visit.
	ErrNoPending = errors.New("no hay una asesoría pendiente de verificación")
)

// Input is one advisory visit as bound from the intake form.
type Input struct {
	Date                   string       `json:"date"`
	CreditUsedAsApproved   string       `json:"creditUsedAsApproved"`
	CreditUsageDescription string       `json:"creditUsageDescription"`
	Improvements           []string     `json:"improvements"`
	OtherImprovement       string       `json:"otherImprovement"`
	TimeToResults          string       `json:"timeToResults"`
	ResultsAsExpected      string       `json:"resultsAsExpected"`
	ResultsExplanation     string       `json:"resultsExplanation"`
	FinancialRecords       string       `json:"financialRecords"`
	EvidenceFiles          []field.File `json:"evidenceFile"`
	ResourceManager        string       `json:"resourceManager"`
	OtherResourceManager   string       `json:"otherResourceManager"`
	PaymentsOnSchedule     string       `json:"paymentsOnSchedule"`
	PaymentExplanation     string       `json:"paymentExplanation"`
	Satisfaction           string       `json:"satisfaction"`
	NeedAnotherCredit      string       `json:"needAnotherCredit"`
	CreditIntendedUse      string       `json:"creditIntendedUse"`

	MonthlyIncome        string `json:"monthlyIncome"`
	FixedCosts           string `json:"fixedCosts"`
	VariableCosts        string `json:"variableCosts"`
	DebtLevel            string `json:"debtLevel"`
	CreditUsedPercentage string `json:"creditUsedPercentage"`
	MonthlyPayment       string `json:"monthlyPayment"`
	EmergencyReserve     string `json:"emergencyReserve"`

	MonthlyClients    string   `json:"monthlyClients"`
	MonthlySales      string   `json:"monthlySales"`
	TotalSalesValue   string   `json:"totalSalesValue"`
	CurrentEmployees  string   `json:"currentEmployees"`
	SalesChannels     []string `json:"salesChannels"`
	OtherSalesChannel string   `json:"otherSalesChannel"`

	VisitEvidenceFiles []field.File `json:"visitEvidenceFile"`
}

// Record maps the input onto the visit schema's canonical field names.
func (in Input) Record() schema.Record {
	return schema.Record{
		"date":                   in.Date,
		"creditUsedAsApproved":   in.CreditUsedAsApproved,
		"creditUsageDescription": in.CreditUsageDescription,
		"improvements":           in.Improvements,
		"otherImprovement":       in.OtherImprovement,
		"timeToResults":          in.TimeToResults,
		"resultsAsExpected":      in.ResultsAsExpected,
		"resultsExplanation":     in.ResultsExplanation,
		"financialRecords":       in.FinancialRecords,
		"evidenceFile":           in.EvidenceFiles,
		"resourceManager":        in.ResourceManager,
		"otherResourceManager":   in.OtherResourceManager,
		"paymentsOnSchedule":     in.PaymentsOnSchedule,
		"paymentExplanation":     in.PaymentExplanation,
		"satisfaction":           in.Satisfaction,
		"needAnotherCredit":      in.NeedAnotherCredit,
		"creditIntendedUse":      in.CreditIntendedUse,
		"monthlyIncome":          in.MonthlyIncome,
		"fixedCosts":             in.FixedCosts,
		"variableCosts":          in.VariableCosts,
		"debtLevel":              in.DebtLevel,
		"creditUsedPercentage":   in.CreditUsedPercentage,
		"monthlyPayment":         in.MonthlyPayment,
		"emergencyReserve":       in.EmergencyReserve,
		"monthlyClients":         in.MonthlyClients,
		"monthlySales":           in.MonthlySales,
		"totalSalesValue":        in.TotalSalesValue,
		"currentEmployees":       in.CurrentEmployees,
		"salesChannels":          in.SalesChannels,
		"otherSalesChannel":      in.OtherSalesChannel,
		"visitEvidenceFile":      in.VisitEvidenceFiles,
	}
}

// ToEntity builds the persistable visit at its sequence position.
func (in Input) ToEntity(beneficiaryRef uint64, seq int, advisorID string) *domainVisit.Visit {
	return &domainVisit.Visit{
		VisitID:        id.NewID32(),
		BeneficiaryRef: beneficiaryRef,
		Seq:            seq,
		Date:           in.Date,

		CreditUsedAsApproved:   in.CreditUsedAsApproved,
		CreditUsageDescription: in.CreditUsageDescription,
		Improvements:           in.Improvements,
		OtherImprovement:       in.OtherImprovement,
		TimeToResults:          in.TimeToResults,
		ResultsAsExpected:      in.ResultsAsExpected,
		ResultsExplanation:     in.ResultsExplanation,
		FinancialRecords:       in.FinancialRecords,
		EvidenceFiles:          in.EvidenceFiles,
		ResourceManager:        in.ResourceManager,
		OtherResourceManager:   in.OtherResourceManager,
		PaymentsOnSchedule:     in.PaymentsOnSchedule,
		PaymentExplanation:     in.PaymentExplanation,
		Satisfaction:           in.Satisfaction,
		NeedAnotherCredit:      in.NeedAnotherCredit,
		CreditIntendedUse:      in.CreditIntendedUse,

		MonthlyIncome:        in.MonthlyIncome,
		FixedCosts:           in.FixedCosts,
		VariableCosts:        in.VariableCosts,
		DebtLevel:            in.DebtLevel,
		CreditUsedPercentage: in.CreditUsedPercentage,
		MonthlyPayment:       in.MonthlyPayment,
		EmergencyReserve:     in.EmergencyReserve,

		MonthlyClients:    in.MonthlyClients,
		MonthlySales:      in.MonthlySales,
		TotalSalesValue:   in.TotalSalesValue,
		CurrentEmployees:  in.CurrentEmployees,
		SalesChannels:     in.SalesChannels,
		OtherSalesChannel: in.OtherSalesChannel,

		VisitEvidenceFiles: in.VisitEvidenceFiles,

		AdvisorID: advisorID,
		Estado:    "Activo",
	}
}

// PendingVisit is a validated visit staged between challenge issue and
// confirmation, keyed by its beneficiary.
type PendingVisit struct {
	BeneficiaryID string    `json:"beneficiaryId"`
	AdvisorID     string    `json:"advisorId"`
	Visit         Input     `json:"visit"`
	StagedAt      time.Time `json:"stagedAt"`
}

// Usecase drives the advisory workflow: validate, stage, challenge, persist.
type Usecase struct {
	beneficiaries beneficiary.Repository
	visits        domainVisit.Repository
	uow           uow.UnitOfWork
	pending       *stage.Store[PendingVisit]
	challenger    gate.Challenger
	maxAttempts   int

	mu    sync.Mutex
	gates map[string]*gate.Gate
}

func NewUsecase(
	beneficiaries beneficiary.Repository,
	visits domainVisit.Repository,
	tx uow.UnitOfWork,
	pending *stage.Store[PendingVisit],
	challenger gate.Challenger,
	maxAttempts int,
) *Usecase {
	return &Usecase{
		beneficiaries: beneficiaries,
		visits:        visits,
		uow:           tx,
		pending:       pending,
		challenger:    challenger,
		maxAttempts:   maxAttempts,
		gates:         make(map[string]*gate.Gate),
	}
}

func (u *Usecase) gateFor(beneficiaryID string) *gate.Gate {
	u.mu.Lock()
	defer u.mu.Unlock()
	g, ok := u.gates[beneficiaryID]
	if !ok {
		g = gate.New(u.challenger, u.maxAttempts)
		u.gates[beneficiaryID] = g
	}
	return g
}

func (u *Usecase) lookupGate(beneficiaryID string) (*gate.Gate, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	g, ok := u.gates[beneficiaryID]
	return g, ok
}

func (u *Usecase) dropGate(beneficiaryID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.gates, beneficiaryID)
}

// Start validates the visit, stages it and issues the SMS challenge. Nothing
// reaches the database here. A second Start while a challenge is out is
// rejected; the pending submission must be confirmed or cancelled first.
func (u *Usecase) Start(ctx context.Context, beneficiaryID, advisorID string, in Input) error {
	if _, err := u.beneficiaries.GetByPublicID(ctx, beneficiaryID); err != nil {
		return err
	}

	g := u.gateFor(beneficiaryID)
	if g.State() != gate.StateFormValid {
		return gate.ErrChallengePending
	}

	f := orchestrator.New(
		orchestrator.VisitSections(true),
		orchestrator.Aggregate{Schema: schema.Visit, Record: in.Record()},
	)
	err := f.Submit(ctx, func(ctx context.Context) error {
		pv := PendingVisit{
			BeneficiaryID: beneficiaryID,
			AdvisorID:     advisorID,
			Visit:         in,
			StagedAt:      time.Now().UTC(),
		}
		if err := u.pending.Put(ctx, pv); err != nil {
			return err
		}
		if err := g.Begin(ctx, beneficiaryID); err != nil {
			_, _ = u.pending.Remove(ctx, beneficiaryID)
			return err
		}
		return nil
	})
	if errors.Is(err, orchestrator.ErrValidation) {
		return &schema.ValidationError{Errors: f.Errors()}
	}
	return err
}

// Confirm verifies the code and, on acceptance, persists the staged visit at
// the next sequence position under a row lock on its beneficiary. A wrong
// code leaves everything staged for another attempt; exhausting the attempt
// budget discards the pending visit. If persisting fails after acceptance,
// Confirm may be called again and will retry the save without verifying a
// new code.
func (u *Usecase) Confirm(ctx context.Context, beneficiaryID, code string) (*domainVisit.Visit, error) {
	g, ok := u.lookupGate(beneficiaryID)
	if !ok {
		return nil, ErrNoPending
	}

	var created *domainVisit.Visit
	err := g.SubmitCode(ctx, code, func(ctx context.Context) error {
		pv, found, err := u.pending.Find(ctx, beneficiaryID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNoPending
		}
		return u.uow.WithinBeneficiaryTx(ctx, beneficiaryID, func(r uow.Repos, b *beneficiary.Beneficiary) error {
			n, err := r.Visits.CountByBeneficiary(ctx, b.ID)
			if err != nil {
				return err
			}
			v := pv.Visit.ToEntity(b.ID, int(n)+1, pv.AdvisorID)
			if err := r.Visits.Create(ctx, v); err != nil {
				return err
			}
			created = v
			return nil
		})
	})
	switch {
	case err == nil:
		_, _ = u.pending.Remove(ctx, beneficiaryID)
		u.dropGate(beneficiaryID)
		return created, nil
	case errors.Is(err, gate.ErrTooManyAttempts):
		_, _ = u.pending.Remove(ctx, beneficiaryID)
		u.dropGate(beneficiaryID)
		return nil, err
	default:
		return nil, err
	}
}

// Cancel discards the pending visit and its challenge.
func (u *Usecase) Cancel(ctx context.Context, beneficiaryID string) error {
	g, ok := u.lookupGate(beneficiaryID)
	if !ok {
		return ErrNoPending
	}
	if err := g.Cancel(); err != nil {
		if errors.Is(err, gate.ErrNotPending) {
			return ErrNoPending
		}
		return err
	}
	_, _ = u.pending.Remove(ctx, beneficiaryID)
	u.dropGate(beneficiaryID)
	return nil
}

// ListByBeneficiary returns the beneficiary's visit history ordered by seq.
func (u *Usecase) ListByBeneficiary(ctx context.Context, beneficiaryID string) ([]domainVisit.Visit, error) {
	b, err := u.beneficiaries.GetByPublicID(ctx, beneficiaryID)
	if err != nil {
		return nil, err
	}
	return u.visits.ListByBeneficiary(ctx, b.ID)
}

// PendingState reports the gate state for a beneficiary, for UI affordances.
func (u *Usecase) PendingState(beneficiaryID string) (gate.State, int, bool) {
	g, ok := u.lookupGate(beneficiaryID)
	if !ok {
		return gate.StateFormValid, 0, false
	}
	return g.State(), g.AttemptsLeft(), true
}
