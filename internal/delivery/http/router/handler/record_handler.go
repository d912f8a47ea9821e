// Package handler contains the HTTP handlers for the admin API.
package handler

import (
	"net/http"
	"net/url"

	"cafeadmin/internal/delivery/http/response"
	"cafeadmin/internal/domain/entity"
	domainerrors "cafeadmin/internal/domain/errors"
	"cafeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RecordHandler exposes listings as the /records resource.
type RecordHandler struct {
	uc usecase.CafeUsecase
}

func NewRecordHandler(uc usecase.CafeUsecase) *RecordHandler {
	return &RecordHandler{uc: uc}
}

// Create handles POST /records. Staged images travel as data URIs.
func (h *RecordHandler) Create(c echo.Context) error {
	payload, err := bindPayload(c)
	if err != nil {
		return err
	}

	cafe, err := h.uc.Create(c.Request().Context(), payload)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, "/records/"+url.PathEscape(cafe.ID), cafe)
}

// Update handles PUT /records/:id
func (h *RecordHandler) Update(c echo.Context) error {
	payload, err := bindPayload(c)
	if err != nil {
		return err
	}

	cafe, err := h.uc.Update(c.Request().Context(), c.Param("id"), payload)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, cafe)
}

// Delete handles DELETE /records/:id; the record is soft-deleted and returned.
func (h *RecordHandler) Delete(c echo.Context) error {
	cafe, err := h.uc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, cafe)
}

// Get handles GET /records/:id. Soft-deleted records are returned too.
func (h *RecordHandler) Get(c echo.Context) error {
	cafe, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, cafe)
}

// List handles GET /records?q=&area=&status=&wifiOnly=&includeDeleted=
func (h *RecordHandler) List(c echo.Context) error {
	var (
		filter entity.CafeFilter
		status string
	)
	err := echo.QueryParamsBinder(c).
		String("q", &filter.Keyword).
		String("area", &filter.Area).
		String("status", &status).
		Bool("wifiOnly", &filter.WifiOnly).
		Bool("includeDeleted", &filter.IncludeDeleted).
		BindError()
	if err != nil {
		return domainerrors.NewMalformedInputError(err, "invalid query parameter")
	}
	filter.Status = entity.CafeStatus(status)

	cafes, err := h.uc.List(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.List(c, cafes)
}

// bindPayload decodes a listing body. A slot carrying a new payload always
// gets a server-generated path, so a client cannot aim an upload at an
// existing object.
func bindPayload(c echo.Context) (*entity.CafeFormPayload, error) {
	payload := &entity.CafeFormPayload{}
	if err := (&echo.DefaultBinder{}).BindBody(c, payload); err != nil {
		return nil, domainerrors.NewMalformedInputError(err, "request body is not a listing")
	}

	for _, category := range entity.AllImageCategories {
		if slot := payload.Images.Get(category); slot.Pending() {
			slot.StoragePath = ""
		}
	}

	return payload, nil
}
