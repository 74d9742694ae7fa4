package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	domain "impulso-backend/internal/domain/beneficiary"
	"impulso-backend/internal/form/field"
	"impulso-backend/internal/form/gate"
	"impulso-backend/internal/usecase/visit"
)

type VisitHandler struct{ uc *visit.Usecase }

func NewVisitHandler(uc *visit.Usecase) *VisitHandler { return &VisitHandler{uc: uc} }

func formValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// formList reads a repeated "key[]" array, falling back to the bare key.
func formList(form *multipart.Form, key string) []string {
	if vs := form.Value[key+"[]"]; len(vs) > 0 {
		return vs
	}
	return form.Value[key]
}

func formFiles(form *multipart.Form, key string) []field.File {
	headers := form.File[key+"[]"]
	if len(headers) == 0 {
		headers = form.File[key]
	}
	files := make([]field.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, field.File{
			Name: fh.Filename,
			Size: fh.Size,
			MIME: fh.Header.Get("Content-Type"),
		})
	}
	return files
}

func visitInputFromForm(form *multipart.Form) visit.Input {
	return visit.Input{
		Date:                   formValue(form, "date"),
		CreditUsedAsApproved:   formValue(form, "creditUsedAsApproved"),
		CreditUsageDescription: formValue(form, "creditUsageDescription"),
		Improvements:           formList(form, "improvements"),
		OtherImprovement:       formValue(form, "otherImprovement"),
		TimeToResults:          formValue(form, "timeToResults"),
		ResultsAsExpected:      formValue(form, "resultsAsExpected"),
		ResultsExplanation:     formValue(form, "resultsExplanation"),
		FinancialRecords:       formValue(form, "financialRecords"),
		EvidenceFiles:          formFiles(form, "evidenceFile"),
		ResourceManager:        formValue(form, "resourceManager"),
		OtherResourceManager:   formValue(form, "otherResourceManager"),
		PaymentsOnSchedule:     formValue(form, "paymentsOnSchedule"),
		PaymentExplanation:     formValue(form, "paymentExplanation"),
		Satisfaction:           formValue(form, "satisfaction"),
		NeedAnotherCredit:      formValue(form, "needAnotherCredit"),
		CreditIntendedUse:      formValue(form, "creditIntendedUse"),

		MonthlyIncome:        formValue(form, "monthlyIncome"),
		FixedCosts:           formValue(form, "fixedCosts"),
		VariableCosts:        formValue(form, "variableCosts"),
		DebtLevel:            formValue(form, "debtLevel"),
		CreditUsedPercentage: formValue(form, "creditUsedPercentage"),
		MonthlyPayment:       formValue(form, "monthlyPayment"),
		EmergencyReserve:     formValue(form, "emergencyReserve"),

		MonthlyClients:    formValue(form, "monthlyClients"),
		MonthlySales:      formValue(form, "monthlySales"),
		TotalSalesValue:   formValue(form, "totalSalesValue"),
		CurrentEmployees:  formValue(form, "currentEmployees"),
		SalesChannels:     formList(form, "salesChannels"),
		OtherSalesChannel: formValue(form, "otherSalesChannel"),

		VisitEvidenceFiles: formFiles(form, "visitEvidenceFile"),
	}
}

// Create validates the advisory form and issues the SMS challenge; the visit
// stays staged until the code is confirmed, so the reply is 202, not 201.
func (h *VisitHandler) Create(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "se esperaba un formulario multipart")
	}
	beneficiaryID := formValue(form, "idbeneficiario")
	if beneficiaryID == "" {
		return badRequest(c, "idbeneficiario es obligatorio")
	}
	in := visitInputFromForm(form)

	err = h.uc.Start(c.Request().Context(), beneficiaryID, formValue(form, "idasesor"), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return notFound(c, "beneficiario no encontrado")
		case errors.Is(err, gate.ErrChallengePending):
			return conflict(c, "ya hay una asesoría pendiente de verificación para este beneficiario")
		}
		if resp, ok := validationFailed(c, err); ok {
			return resp
		}
		return internal(c, err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"status":  "challenge_sent",
		"message": "Código de verificación enviado por SMS",
	})
}

type confirmVisitReq struct {
	BeneficiaryID string `json:"idbeneficiario" validate:"required"`
	Code          string `json:"codigo" validate:"required,digitstr,len=4"`
}

// ConfirmSMS verifies the challenge code and persists the staged visit.
func (h *VisitHandler) ConfirmSMS(c echo.Context) error {
	var req confirmVisitReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "solicitud inválida",
			Details: ToFieldErrors(err),
		})
	}

	v, err := h.uc.Confirm(c.Request().Context(), req.BeneficiaryID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, visit.ErrNoPending):
			return notFound(c, "no hay una asesoría pendiente de verificación")
		case errors.Is(err, gate.ErrChallengeRejected):
			_, left, _ := h.uc.PendingState(req.BeneficiaryID)
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:        "código incorrecto",
				AttemptsLeft: &left,
			})
		case errors.Is(err, gate.ErrTooManyAttempts):
			return c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "demasiados intentos; la asesoría fue descartada",
			})
		case errors.Is(err, gate.ErrNotPending):
			return notFound(c, "no hay una verificación pendiente")
		}
		return internal(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *VisitHandler) ListByBeneficiary(c echo.Context) error {
	visits, err := h.uc.ListByBeneficiary(c.Request().Context(), c.Param("beneficiary_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "beneficiario no encontrado")
		}
		return internal(c, err)
	}
	return c.JSON(http.StatusOK, visits)
}

// CancelPending discards a staged advisory and its challenge.
func (h *VisitHandler) CancelPending(c echo.Context) error {
	err := h.uc.Cancel(c.Request().Context(), c.Param("beneficiary_id"))
	if err != nil {
		if errors.Is(err, visit.ErrNoPending) {
			return notFound(c, "no hay una asesoría pendiente de verificación")
		}
		return internal(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PendingState reports the verification state for UI affordances.
func (h *VisitHandler) PendingState(c echo.Context) error {
	state, left, ok := h.uc.PendingState(c.Param("beneficiary_id"))
	if !ok {
		return notFound(c, "no hay una asesoría pendiente de verificación")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"state":        state.String(),
		"attemptsLeft": left,
	})
}
