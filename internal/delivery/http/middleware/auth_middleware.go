package middleware

import (
	"strings"

	deliverycontext "cafeadmin/internal/delivery/context"
	domainerrors "cafeadmin/internal/domain/errors"
	"cafeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware requires a bearer session token on protected routes.
type AuthMiddleware struct {
	sessions usecase.SessionUsecase
}

func NewAuthMiddleware(sessions usecase.SessionUsecase) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate validates the bearer token and stores the session on the
// context. When no admin credential is configured every request passes.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.sessions.Enabled() {
			return next(c)
		}

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return domainerrors.ErrUnauthorized.WithDetails("bearer token is missing")
		}

		session, err := m.sessions.Authenticate(c.Request().Context(), strings.TrimSpace(token))
		if err != nil {
			return err
		}
		deliverycontext.SetSession(c, session)

		return next(c)
	}
}
