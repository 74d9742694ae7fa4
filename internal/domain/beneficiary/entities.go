package beneficiary

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("beneficiary not found")
)

// Estado is the lifecycle state shown on the list screens.
type Estado string

const (
	EstadoActivo   Estado = "Activo"
	EstadoInactivo Estado = "Inactivo"
)

// Beneficiary is the program participant: personal, company and credit
// profile captured at intake. Dates are stored as YYYY-MM-DD strings and
// monetary values as unformatted digit strings; thousands separators are a
// display concern only.
type Beneficiary struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	BeneficiaryID string `gorm:"size:36;uniqueIndex:ux_beneficiaries_public_active" json:"id"`

	// Información personal
	FullName           string `gorm:"size:120" json:"fullName"`
	FirstSurname       string `gorm:"size:60" json:"firstSurname"`
	SecondSurname      string `gorm:"size:60" json:"secondSurname"`
	Gender             string `gorm:"size:30" json:"gender"`
	DateOfBirth        string `gorm:"size:10" json:"dateOfBirth"`
	EducationalProfile string `gorm:"size:40" json:"educationalProfile"`
	Ethnicity          string `gorm:"size:40" json:"ethnicity"`
	NationalID         string `gorm:"size:20;index:idx_beneficiaries_national_id" json:"nationalId"`
	PhoneNumber        string `gorm:"size:20" json:"phoneNumber"`

	// Información de la empresa
	CompanyName    string `gorm:"size:120" json:"companyName"`
	NIT            string `gorm:"size:15;index:idx_beneficiaries_nit" json:"nit"`
	EconomicSector string `gorm:"size:30" json:"economicSector"`
	MainSector     string `gorm:"size:60" json:"mainSector"`
	City           string `gorm:"size:60" json:"city"`
	Address        string `gorm:"size:160" json:"address"`

	// Información del crédito
	ApprovedCreditValue    string   `gorm:"size:20" json:"approvedCreditValue"`
	DisbursementDate       string   `gorm:"size:10" json:"disbursementDate"`
	CreditDestination      []string `gorm:"serializer:json;type:text" json:"creditDestination"`
	OtherCreditDestination string   `gorm:"size:120" json:"otherCreditDestination"`

	EvaluatorObservations string `gorm:"type:text" json:"evaluatorObservations"`

	Estado    Estado         `gorm:"size:16;default:'Activo'" json:"estado"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Beneficiary) TableName() string { return "beneficiaries" }
