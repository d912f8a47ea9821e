package handler

import (
	"net/http"

	"cafeadmin/internal/delivery/http/response"
	"cafeadmin/internal/domain/service"
	"cafeadmin/internal/form"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PostalHandler exposes the postal code lookup.
type PostalHandler struct {
	postal service.PostalLookup
}

func NewPostalHandler(postal service.PostalLookup) *PostalHandler {
	return &PostalHandler{postal: postal}
}

// Lookup handles GET /postal/:code. Anything but seven digits is rejected
// before the upstream is called.
func (h *PostalHandler) Lookup(c echo.Context) error {
	code, err := form.NormalizePostalCode(c.Param("code"))
	if err != nil {
		return err
	}

	addr, err := h.postal.Lookup(c.Request().Context(), code)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, addr)
}
