package visit

import (
	"errors"
	"time"

	"impulso-backend/internal/form/field"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("visit not found")
)

// Visit is one advisory/follow-up assessment tied to a beneficiary. Seq is
// its position within the beneficiary's history (visit N for beneficiary X);
// visits are append-only.
type Visit struct {
	ID      uint64 `gorm:"primaryKey;column:id" json:"-"`
	VisitID string `gorm:"size:32;uniqueIndex:ux_visits_visit_id" json:"visitId"`

	BeneficiaryRef uint64 `gorm:"column:beneficiary_id;uniqueIndex:ux_visits_beneficiary_seq;index:idx_visits_beneficiary" json:"-"`
	Seq            int    `gorm:"uniqueIndex:ux_visits_beneficiary_seq" json:"seq"`

	Date string `gorm:"size:10" json:"date"`

	// Evaluación del crédito
	CreditUsedAsApproved   string       `gorm:"size:20" json:"creditUsedAsApproved"`
	CreditUsageDescription string       `gorm:"type:text" json:"creditUsageDescription"`
	Improvements           []string     `gorm:"serializer:json;type:text" json:"improvements"`
	OtherImprovement       string       `gorm:"size:160" json:"otherImprovement"`
	TimeToResults          string       `gorm:"size:40" json:"timeToResults"`
	ResultsAsExpected      string       `gorm:"size:20" json:"resultsAsExpected"`
	ResultsExplanation     string       `gorm:"type:text" json:"resultsExplanation"`
	FinancialRecords       string       `gorm:"size:10" json:"financialRecords"`
	EvidenceFiles          []field.File `gorm:"serializer:json;type:text" json:"evidenceFile"`
	ResourceManager        string       `gorm:"size:40" json:"resourceManager"`
	OtherResourceManager   string       `gorm:"size:120" json:"otherResourceManager"`
	PaymentsOnSchedule     string       `gorm:"size:20" json:"paymentsOnSchedule"`
	PaymentExplanation     string       `gorm:"type:text" json:"paymentExplanation"`
	Satisfaction           string       `gorm:"size:30" json:"satisfaction"`
	NeedAnotherCredit      string       `gorm:"size:10" json:"needAnotherCredit"`
	CreditIntendedUse      string       `gorm:"size:160" json:"creditIntendedUse"`

	// Diagnóstico financiero
	MonthlyIncome        string `gorm:"size:20" json:"monthlyIncome"`
	FixedCosts           string `gorm:"size:20" json:"fixedCosts"`
	VariableCosts        string `gorm:"size:20" json:"variableCosts"`
	DebtLevel            string `gorm:"size:3" json:"debtLevel"`
	CreditUsedPercentage string `gorm:"size:3" json:"creditUsedPercentage"`
	MonthlyPayment       string `gorm:"size:20" json:"monthlyPayment"`
	EmergencyReserve     string `gorm:"size:20" json:"emergencyReserve"`

	// Diagnóstico comercial
	MonthlyClients    string   `gorm:"size:20" json:"monthlyClients"`
	MonthlySales      string   `gorm:"size:20" json:"monthlySales"`
	TotalSalesValue   string   `gorm:"size:20" json:"totalSalesValue"`
	CurrentEmployees  string   `gorm:"size:20" json:"currentEmployees"`
	SalesChannels     []string `gorm:"serializer:json;type:text" json:"salesChannels"`
	OtherSalesChannel string   `gorm:"size:120" json:"otherSalesChannel"`

	// Evidencia de la visita
	VisitEvidenceFiles []field.File `gorm:"serializer:json;type:text" json:"visitEvidenceFile"`

	AdvisorID string `gorm:"size:32" json:"advisorId"`
	Estado    string `gorm:"size:16;default:'Activo'" json:"estado"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Visit) TableName() string { return "visits" }
