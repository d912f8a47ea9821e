// Package response renders the JSON envelopes of the admin API.
package response

import (
	"net/http"

	domainerrors "cafeadmin/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Envelope wraps every successful payload
type Envelope struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta describes list results
type Meta struct {
	Count int `json:"count"`
}

// ErrorBody is the failure shape. Validation failures carry Errors;
// every other failure carries Message and Detail.
type ErrorBody struct {
	Errors  []string `json:"errors,omitempty"`
	Code    string   `json:"code,omitempty"`
	Message string   `json:"message,omitempty"`
	Detail  string   `json:"detail,omitempty"`
	// Data is set when the failed operation still changed visible state
	Data any `json:"data,omitempty"`
}

// Success writes {data}
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, Envelope{Data: data})
}

// List writes {data, meta:{count}}
func List[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}

	return c.JSON(http.StatusOK, Envelope{Data: items, Meta: &Meta{Count: len(items)}})
}

// Created writes 201 {data} with a Location header
func Created(c echo.Context, location string, data any) error {
	c.Response().Header().Set(echo.HeaderLocation, location)

	return Success(c, http.StatusCreated, data)
}

// Failure writes err with its status and attaches data to the body
func Failure(c echo.Context, err error, data any) error {
	status, body, _ := ErrorFor(err)
	body.Data = data

	return c.JSON(status, body)
}

// ErrorFor maps err to a status and body. known is false for errors that
// are not part of the application taxonomy.
func ErrorFor(err error) (status int, body ErrorBody, known bool) {
	var validationErr *domainerrors.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.HTTPCode(), ErrorBody{
			Code:   validationErr.ErrorCode(),
			Errors: validationErr.Violations(),
		}, true
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode(), ErrorBody{
			Code:    appErr.ErrorCode(),
			Message: appErr.Message(),
			Detail:  appErr.Details(),
		}, true
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok && m != "" {
			message = m
		}

		return httpErr.Code, ErrorBody{Code: "HTTP_ERROR", Message: message}, true
	}

	return http.StatusInternalServerError, ErrorBody{
		Code:    domainerrors.ErrInternalError.ErrorCode(),
		Message: domainerrors.ErrInternalError.Message(),
	}, false
}
