package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"impulso-backend/internal/export"
	"impulso-backend/internal/usecase/beneficiary"
)

type ExportHandler struct{ uc *beneficiary.Usecase }

func NewExportHandler(uc *beneficiary.Usecase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Beneficiaries streams the filtered beneficiary list, visit history
// flattened into columns, as an .xlsx attachment. The same query filters as
// the list endpoint apply.
func (h *ExportHandler) Beneficiaries(c echo.Context) error {
	var crit beneficiary.Criteria
	if err := c.Bind(&crit); err != nil {
		return badRequest(c, "filtros inválidos")
	}
	details, err := h.uc.ListAll(c.Request().Context(), crit)
	if err != nil {
		return internal(c, err)
	}

	items := make([]export.Item, 0, len(details))
	for _, d := range details {
		items = append(items, export.Item{Beneficiary: d.Beneficiary, Visits: d.Visits})
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, "Beneficiarios", items); err != nil {
		return internal(c, err)
	}

	name := fmt.Sprintf("beneficiarios-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, name))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
