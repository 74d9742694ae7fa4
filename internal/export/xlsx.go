// Package export turns beneficiaries and their visit history into a flat
// spreadsheet. Nested visit records become columns named visits[<i>].<field>.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"impulso-backend/internal/domain/beneficiary"
	"impulso-backend/internal/domain/visit"
	"impulso-backend/internal/form/field"
)

// Item is one row source: a beneficiary plus their ordered visits.
type Item struct {
	Beneficiary beneficiary.Beneficiary
	Visits      []visit.Visit
}

var baseColumns = []string{
	"id", "fullName", "firstSurname", "secondSurname", "gender", "dateOfBirth",
	"educationalProfile", "ethnicity", "nationalId", "phoneNumber",
	"companyName", "nit", "economicSector", "mainSector", "city", "address",
	"approvedCreditValue", "disbursementDate", "creditDestination",
	"otherCreditDestination", "evaluatorObservations", "estado",
}

var visitColumns = []string{
	"seq", "date", "creditUsedAsApproved", "creditUsageDescription",
	"improvements", "otherImprovement", "timeToResults", "resultsAsExpected",
	"resultsExplanation", "financialRecords", "evidenceFile",
	"resourceManager", "otherResourceManager", "paymentsOnSchedule",
	"paymentExplanation", "satisfaction", "needAnotherCredit",
	"creditIntendedUse", "monthlyIncome", "fixedCosts", "variableCosts",
	"debtLevel", "creditUsedPercentage", "monthlyPayment", "emergencyReserve",
	"monthlyClients", "monthlySales", "totalSalesValue", "currentEmployees",
	"salesChannels", "otherSalesChannel", "estado",
}

func joinFiles(files []field.File) string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

func baseValues(b beneficiary.Beneficiary) []string {
	return []string{
		b.BeneficiaryID, b.FullName, b.FirstSurname, b.SecondSurname, b.Gender,
		b.DateOfBirth, b.EducationalProfile, b.Ethnicity, b.NationalID,
		b.PhoneNumber, b.CompanyName, b.NIT, b.EconomicSector, b.MainSector,
		b.City, b.Address, b.ApprovedCreditValue, b.DisbursementDate,
		strings.Join(b.CreditDestination, ", "), b.OtherCreditDestination,
		b.EvaluatorObservations, string(b.Estado),
	}
}

func visitValues(v visit.Visit) []string {
	return []string{
		fmt.Sprintf("%d", v.Seq), v.Date, v.CreditUsedAsApproved,
		v.CreditUsageDescription, strings.Join(v.Improvements, ", "),
		v.OtherImprovement, v.TimeToResults, v.ResultsAsExpected,
		v.ResultsExplanation, v.FinancialRecords, joinFiles(v.EvidenceFiles),
		v.ResourceManager, v.OtherResourceManager, v.PaymentsOnSchedule,
		v.PaymentExplanation, v.Satisfaction, v.NeedAnotherCredit,
		v.CreditIntendedUse, v.MonthlyIncome, v.FixedCosts, v.VariableCosts,
		v.DebtLevel, v.CreditUsedPercentage, v.MonthlyPayment,
		v.EmergencyReserve, v.MonthlyClients, v.MonthlySales,
		v.TotalSalesValue, v.CurrentEmployees,
		strings.Join(v.SalesChannels, ", "), v.OtherSalesChannel, v.Estado,
	}
}

// Rows flattens the items. The header row covers the widest visit history so
// every row has the same column set; short histories leave blanks.
func Rows(items []Item) (headers []string, rows [][]string) {
	maxVisits := 0
	for _, it := range items {
		if len(it.Visits) > maxVisits {
			maxVisits = len(it.Visits)
		}
	}

	headers = append(headers, baseColumns...)
	for i := 0; i < maxVisits; i++ {
		for _, col := range visitColumns {
			headers = append(headers, fmt.Sprintf("visits[%d].%s", i, col))
		}
	}

	for _, it := range items {
		row := baseValues(it.Beneficiary)
		for i := 0; i < maxVisits; i++ {
			if i < len(it.Visits) {
				row = append(row, visitValues(it.Visits[i])...)
			} else {
				row = append(row, make([]string, len(visitColumns))...)
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// WriteXLSX writes one worksheet with the flattened rows.
func WriteXLSX(w io.Writer, sheet string, items []Item) error {
	headers, rows := Rows(items)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	writeRow := func(rowIdx int, values []string) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
