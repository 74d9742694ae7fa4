package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	domain "impulso-backend/internal/domain/beneficiary"
	"impulso-backend/internal/usecase/beneficiary"
)

type BeneficiaryHandler struct{ uc *beneficiary.Usecase }

func NewBeneficiaryHandler(uc *beneficiary.Usecase) *BeneficiaryHandler {
	return &BeneficiaryHandler{uc: uc}
}

func (h *BeneficiaryHandler) Create(c echo.Context) error {
	var in beneficiary.CreateInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	b, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		if resp, ok := validationFailed(c, err); ok {
			return resp
		}
		return internal(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BeneficiaryHandler) Get(c echo.Context) error {
	d, err := h.uc.Get(c.Request().Context(), c.Param("beneficiary_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "beneficiario no encontrado")
		}
		return internal(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *BeneficiaryHandler) List(c echo.Context) error {
	var crit beneficiary.Criteria
	if err := c.Bind(&crit); err != nil {
		return badRequest(c, "filtros inválidos")
	}
	pageSize, pageIndex := pageParams(c)
	page, err := h.uc.List(c.Request().Context(), crit, pageSize, pageIndex)
	if err != nil {
		return internal(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

type updateFieldReq struct {
	Value any `json:"value"`
}

func (h *BeneficiaryHandler) UpdateField(c echo.Context) error {
	var req updateFieldReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	b, err := h.uc.UpdateField(c.Request().Context(), c.Param("beneficiary_id"), c.Param("field"), req.Value)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return notFound(c, "beneficiario no encontrado")
		case errors.Is(err, beneficiary.ErrUnknownField):
			return badRequest(c, "campo desconocido")
		}
		if resp, ok := validationFailed(c, err); ok {
			return resp
		}
		return internal(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
