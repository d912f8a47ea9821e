package impl

import (
	"context"
	"log/slog"
	"time"

	"cafeadmin/config"
	deliverycontext "cafeadmin/internal/delivery/context"
	"cafeadmin/internal/domain/entity"
	domainerrors "cafeadmin/internal/domain/errors"
	"cafeadmin/internal/domain/service"
	"cafeadmin/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	gate    service.CredentialChecker
	tokens  service.TokenService
	enabled bool
	logger  *slog.Logger
}

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	Gate   service.CredentialChecker
	Tokens service.TokenService
	Config *config.Config
	Logger *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		gate:    params.Gate,
		tokens:  params.Tokens,
		enabled: params.Config.Admin.ID != "",
		logger:  params.Logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *sessionService) Enabled() bool {
	return srv.enabled
}

// Login checks the credential against the configured admin and issues a token.
func (srv *sessionService) Login(ctx context.Context, cred entity.Credential) (string, *entity.Session, error) {
	if !srv.gate.Check(cred) {
		srv.log(ctx).Warn("Rejected admin login", slog.String("admin_id", cred.ID))

		return "", nil, domainerrors.ErrInvalidCredentials
	}

	issuedAt := time.Now()
	token, expiresAt, err := srv.tokens.Issue(cred.ID)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to issue session token")
	}
	srv.log(ctx).Info("Admin signed in", slog.String("admin_id", cred.ID))

	return token, &entity.Session{Subject: cred.ID, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a bearer token. Any invalid token is reported as unauthorized.
func (srv *sessionService) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	if token == "" {
		return nil, domainerrors.ErrUnauthorized
	}

	claims, err := srv.tokens.Validate(token)
	if err != nil {
		srv.log(ctx).Debug("Rejected session token", slog.Any("error", err))

		return nil, domainerrors.ErrUnauthorized
	}

	session := &entity.Session{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session, nil
}
