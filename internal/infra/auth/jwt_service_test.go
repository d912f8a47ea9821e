package auth

import (
	"testing"
	"time"

	"cafeadmin/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Env.ServiceName = "cafeadmin"
	cfg.Admin.ID = "admin"
	cfg.Admin.SessionKey = "test_session_key_very_long_for_testing"
	cfg.Admin.SessionTTL = time.Hour

	return cfg
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	token, expiresAt, err := svc.Issue("admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "cafeadmin", claims.Issuer)
}

func TestJWTService_RejectsBadTokens(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	other := testConfig()
	other.Admin.SessionKey = "a_different_key_entirely_for_testing"
	otherSvc, err := NewJWTService(other)
	require.NoError(t, err)

	foreign, _, err := otherSvc.Issue("admin")
	require.NoError(t, err)

	_, err = svc.Validate(foreign)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = svc.Validate("not-a-token")
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}

func TestJWTService_Expired(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	impl := svc.(*jwtService)
	impl.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.Issue("admin")
	require.NoError(t, err)

	impl.now = time.Now
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestNewJWTService_RequiresKeyWhenAdminConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Admin.SessionKey = ""

	_, err := NewJWTService(cfg)
	assert.Error(t, err)

	cfg.Admin.ID = ""
	_, err = NewJWTService(cfg)
	assert.NoError(t, err)
}
