package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"cafeadmin/config"
	"cafeadmin/internal/domain/entity"
	domainerrors "cafeadmin/internal/domain/errors"
	"cafeadmin/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGate struct{ mock.Mock }

func (m *mockGate) Check(cred entity.Credential) bool {
	return m.Called(cred).Bool(0)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) Issue(subject string) (string, time.Time, error) {
	args := m.Called(subject)

	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokens) Validate(token string) (*service.Claims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func newSessionService(gate *mockGate, tokens *mockTokens, adminID string) *sessionService {
	cfg := &config.Config{}
	cfg.Admin.ID = adminID

	return NewSessionService(SessionServiceParams{
		Gate:   gate,
		Tokens: tokens,
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}).(*sessionService)
}

func TestSessionService_Login_Success(t *testing.T) {
	gate, tokens := &mockGate{}, &mockTokens{}
	srv := newSessionService(gate, tokens, "admin")
	cred := entity.Credential{ID: "admin", Password: "pw"}
	expiresAt := time.Now().Add(time.Hour)

	gate.On("Check", cred).Return(true)
	tokens.On("Issue", "admin").Return("signed", expiresAt, nil)

	token, session, err := srv.Login(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, "signed", token)
	assert.Equal(t, "admin", session.Subject)
	assert.Equal(t, expiresAt, session.ExpiresAt)
	assert.True(t, srv.Enabled())

	gate.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestSessionService_Login_InvalidCredential(t *testing.T) {
	gate, tokens := &mockGate{}, &mockTokens{}
	srv := newSessionService(gate, tokens, "admin")
	cred := entity.Credential{ID: "admin", Password: "wrong"}

	gate.On("Check", cred).Return(false)

	_, _, err := srv.Login(context.Background(), cred)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	tokens.AssertNotCalled(t, "Issue", mock.Anything)
}

func TestSessionService_Authenticate(t *testing.T) {
	gate, tokens := &mockGate{}, &mockTokens{}
	srv := newSessionService(gate, tokens, "")
	issued := time.Now().Truncate(time.Second)

	tokens.On("Validate", "good").Return(&service.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
	}}, nil)
	tokens.On("Validate", "bad").Return(nil, errors.New("signature is invalid"))

	session, err := srv.Authenticate(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Subject)
	assert.True(t, issued.Equal(session.IssuedAt))

	_, err = srv.Authenticate(context.Background(), "bad")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = srv.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	assert.False(t, srv.Enabled())
}
