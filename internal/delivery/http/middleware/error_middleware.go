package middleware

import (
	"log/slog"

	deliverycontext "cafeadmin/internal/delivery/context"
	"cafeadmin/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware renders handler errors as JSON
type ErrorMiddleware struct {
	logger *slog.Logger
}

func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError is installed as echo's HTTPErrorHandler. Errors outside
// the application taxonomy become a generic 500 and are logged in full.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body, known := response.ErrorFor(err)
	if !known {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Error("Unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
			slog.String("method", c.Request().Method),
		)
	}

	if c.Request().Method == echo.HEAD {
		_ = c.NoContent(status)

		return
	}
	_ = c.JSON(status, body)
}
