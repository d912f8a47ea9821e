// Package router registers the admin API routes.
package router

import (
	"cafeadmin/internal/delivery/http/middleware"
	"cafeadmin/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	RecordHandler  *handler.RecordHandler
	WizardHandler  *handler.WizardHandler
	SessionHandler *handler.SessionHandler
	PostalHandler  *handler.PostalHandler
	ImageHandler   *handler.ImageHandler
	AuthMiddleware *middleware.AuthMiddleware
}

type router struct {
	records  *handler.RecordHandler
	wizards  *handler.WizardHandler
	sessions *handler.SessionHandler
	postal   *handler.PostalHandler
	images   *handler.ImageHandler
	auth     *middleware.AuthMiddleware
}

func NewRouter(params RouterParams) *router {
	return &router{
		records:  params.RecordHandler,
		wizards:  params.WizardHandler,
		sessions: params.SessionHandler,
		postal:   params.PostalHandler,
		images:   params.ImageHandler,
		auth:     params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.POST("/session", r.sessions.Login)

	// images are public so stored preview URLs work in <img> tags
	e.GET("/images/*", r.images.Serve)

	records := e.Group("/records", r.auth.Authenticate)
	{
		records.GET("", r.records.List)
		records.POST("", r.records.Create)
		records.GET("/:id", r.records.Get)
		records.PUT("/:id", r.records.Update)
		records.DELETE("/:id", r.records.Delete)
	}

	postal := e.Group("/postal", r.auth.Authenticate)
	{
		postal.GET("/:code", r.postal.Lookup)
	}

	wizards := e.Group("/wizards", r.auth.Authenticate)
	{
		wizards.POST("", r.wizards.Open)
		wizards.GET("/:wid", r.wizards.Get)
		wizards.DELETE("/:wid", r.wizards.Close)
		wizards.PATCH("/:wid/form", r.wizards.PatchForm)
		wizards.POST("/:wid/toggle", r.wizards.Toggle)
		wizards.PUT("/:wid/crowd/:slot", r.wizards.SetCrowd)
		wizards.POST("/:wid/advance", r.wizards.Advance)
		wizards.POST("/:wid/back", r.wizards.Back)
		wizards.POST("/:wid/step", r.wizards.GoTo)
		wizards.PUT("/:wid/images/:category", r.wizards.AttachImage)
		wizards.PATCH("/:wid/images/:category", r.wizards.SetCaption)
		wizards.DELETE("/:wid/images/:category", r.wizards.ClearImage)
		wizards.GET("/:wid/previews/:ref", r.wizards.Preview)
		wizards.POST("/:wid/postal-lookup", r.wizards.PostalLookup)
		wizards.POST("/:wid/submit", r.wizards.Submit)
		wizards.POST("/:wid/restart", r.wizards.Restart)
	}
}
