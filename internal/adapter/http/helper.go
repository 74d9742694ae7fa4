package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"impulso-backend/internal/form/schema"
)

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: msg})
}

func conflict(c echo.Context, msg string) error {
	return c.JSON(http.StatusConflict, ErrorResponse{Error: msg})
}

func internal(c echo.Context, err error) error {
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "error interno"})
}

// validationFailed renders a *schema.ValidationError as 422 with per-field
// details, or reports that err was something else.
func validationFailed(c echo.Context, err error) (error, bool) {
	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		return nil, false
	}
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "el formulario tiene errores de validación",
		Details: ve.Errors,
	}), true
}

// pageParams reads pageSize/pageIndex query parameters with list defaults.
func pageParams(c echo.Context) (pageSize, pageIndex int) {
	pageSize = 10
	if n, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && n > 0 {
		pageSize = n
	}
	if n, err := strconv.Atoi(c.QueryParam("pageIndex")); err == nil && n >= 0 {
		pageIndex = n
	}
	return pageSize, pageIndex
}
