// Package http serves the admin API over HTTP/1.1 and cleartext HTTP/2.
package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"cafeadmin/config"
	"cafeadmin/internal/delivery"
	httpmiddleware "cafeadmin/internal/delivery/http/middleware"
	"cafeadmin/internal/delivery/http/router"
	"cafeadmin/internal/delivery/http/validator"
	deliverymiddleware "cafeadmin/internal/delivery/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

const defaultShutdownTimeout = 10 * time.Second

type HTTPParams struct {
	fx.In
	fx.Lifecycle

	Config          *config.Config
	Logger          *slog.Logger
	ErrorMiddleware *httpmiddleware.ErrorMiddleware
	RouterParams    router.RouterParams
}

type httpServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

func NewServer(params HTTPParams) (delivery.Delivery, error) {
	echoServer := NewEcho(params.Config, params.Logger, params.ErrorMiddleware)
	router.NewRouter(params.RouterParams).RegisterRoutes(echoServer)

	delivery := &httpServer{
		cfg:    params.Config,
		logger: params.Logger,
		server: echoServer,
	}

	params.Append(fx.Hook{
		OnStop: delivery.stop,
	})

	return delivery, nil
}

// NewEcho builds the echo instance with the shared middleware chain and no routes.
func NewEcho(cfg *config.Config, logger *slog.Logger, errs *httpmiddleware.ErrorMiddleware) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = errs.HandleHTTPError

	e.Use(middleware.Recover())
	e.Use(deliverymiddleware.NewRequestIDMiddleware(logger).Process)
	e.Use(deliverymiddleware.NewLoggerMiddleware(logger, cfg).Handle)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, "X-Request-Id"},
		ExposeHeaders: []string{echo.HeaderLocation, "X-Request-Id"},
	}))
	if cfg.HTTP.MaxRequestBodySize != "" {
		e.Use(middleware.BodyLimit(cfg.HTTP.MaxRequestBodySize))
	}

	return e
}

func (s *httpServer) Serve(_ context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	timeouts := s.cfg.HTTP.Timeouts

	// StartH2CServer serves through e.Server, so the timeouts go there
	s.server.Server.ReadTimeout = timeouts.ReadTimeout
	s.server.Server.ReadHeaderTimeout = timeouts.ReadHeaderTimeout
	s.server.Server.WriteTimeout = timeouts.WriteTimeout
	s.server.Server.IdleTimeout = timeouts.IdleTimeout

	s.logger.Info("Starting HTTP server", slog.String("hostPort", hostPort))
	err := s.server.StartH2CServer(hostPort, &http2.Server{IdleTimeout: timeouts.IdleTimeout})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to serve http")
	}

	return nil
}

func (s *httpServer) stop(ctx context.Context) error {
	timeout := s.cfg.Env.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
