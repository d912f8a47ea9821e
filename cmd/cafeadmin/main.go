package main

import (
	"context"
	"log/slog"
	"os"

	"cafeadmin/config"
	"cafeadmin/internal/delivery"
	"cafeadmin/internal/delivery/http"
	"cafeadmin/internal/delivery/http/middleware"
	"cafeadmin/internal/delivery/http/router/handler"
	"cafeadmin/internal/form"
	"cafeadmin/internal/infra/auth"
	"cafeadmin/internal/infra/blob"
	"cafeadmin/internal/infra/draftstore"
	logs "cafeadmin/internal/infra/log"
	"cafeadmin/internal/infra/persistence"
	"cafeadmin/internal/infra/postal"
	"cafeadmin/internal/usecase"
	"cafeadmin/internal/usecase/impl"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectForm(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		blob.New,
		draftstore.New,
	)
}

func injectRepo() fx.Option {
	return fx.Provide(
		persistence.New,
	)
}

func injectService() fx.Option {
	return fx.Provide(
		auth.NewCredentialGate,
		auth.NewJWTService,
		postal.NewZipcloudClient,
	)
}

func injectUsecase() fx.Option {
	return fx.Provide(
		impl.NewSessionService,
		impl.NewCafeService,
		// the wizard submits through and reads records from the cafe usecase
		func(uc usecase.CafeUsecase) form.Submitter { return uc },
		func(uc usecase.CafeUsecase) form.RecordReader { return uc },
	)
}

func injectForm() fx.Option {
	return fx.Provide(
		form.NewPathGenerator,
		form.NewDrafts,
		form.NewManager,
	)
}

func injectMiddleware() fx.Option {
	return fx.Provide(
		middleware.NewAuthMiddleware,
		middleware.NewErrorMiddleware,
	)
}

func injectHandler() fx.Option {
	return fx.Provide(
		handler.NewRecordHandler,
		handler.NewWizardHandler,
		handler.NewSessionHandler,
		handler.NewPostalHandler,
		handler.NewImageHandler,
	)
}

func injectDelivery() fx.Option {
	return fx.Provide(
		fx.Annotate(
			http.NewServer,
			fx.ResultTags(`group:"deliveries"`),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
