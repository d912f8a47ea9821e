package context

import (
	"context"

	"cafeadmin/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// SetSession stores the session on echo.Context and on the request context.
func SetSession(c echo.Context, session *entity.Session) {
	c.Set(echoKeySession, session)
	c.SetRequest(c.Request().WithContext(WithSession(c.Request().Context(), session)))
}

// GetSession returns the session set by the auth middleware, or nil.
func GetSession(c echo.Context) *entity.Session {
	session, _ := c.Get(echoKeySession).(*entity.Session)

	return session
}

func WithSession(ctx context.Context, session *entity.Session) context.Context {
	return context.WithValue(ctx, keySession, session)
}

// SessionFromContext returns the session carried by ctx, or nil.
func SessionFromContext(ctx context.Context) *entity.Session {
	session, _ := ctx.Value(keySession).(*entity.Session)

	return session
}
