package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	domain "impulso-backend/internal/domain/user"
	"impulso-backend/internal/usecase/user"
)

type UserHandler struct{ uc *user.Usecase }

func NewUserHandler(uc *user.Usecase) *UserHandler { return &UserHandler{uc: uc} }

func (h *UserHandler) Create(c echo.Context) error {
	var in user.CreateInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	u, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return conflict(c, "el nombre de usuario ya está en uso")
		}
		if resp, ok := validationFailed(c, err); ok {
			return resp
		}
		return internal(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.uc.Get(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "usuario no encontrado")
		}
		return internal(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) List(c echo.Context) error {
	var crit user.Criteria
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

func (h *UserHandler) UpdateField(c echo.Context) error {
	var req updateFieldReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	u, err := h.uc.UpdateField(c.Request().Context(), c.Param("user_id"), c.Param("field"), req.Value)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return notFound(c, "usuario no encontrado")
		case errors.Is(err, domain.ErrUsernameTaken):
			return conflict(c, "el nombre de usuario ya está en uso")
		case errors.Is(err, user.ErrUnknownField):
			return badRequest(c, "campo desconocido")
		}
		if resp, ok := validationFailed(c, err); ok {
			return resp
		}
		return internal(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
