// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"cafeadmin/internal/domain/entity"
)

// SessionUsecase defines the admin login and session checks.
type SessionUsecase interface {
	// Login checks the credential and issues a bearer token.
	Login(ctx context.Context, cred entity.Credential) (token string, session *entity.Session, err error)
	// Authenticate resolves a bearer token to its session.
	Authenticate(ctx context.Context, token string) (*entity.Session, error)
	// Enabled reports whether sign-in is required at all.
	Enabled() bool
}
