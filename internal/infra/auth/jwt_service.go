package auth

import (
	"time"

	"cafeadmin/config"
	"cafeadmin/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService. Without a configured
// admin there is nothing to sign for, and a random key is used.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	key := cfg.Admin.SessionKey
	if key == "" {
		if cfg.Admin.ID != "" {
			return nil, errors.New("admin.sessionKey must be provided")
		}
		key = uuid.NewString()
	}

	return &jwtService{
		secret: []byte(key),
		issuer: cfg.Env.ServiceName,
		ttl:    cfg.Admin.SessionTTL,
		now:    time.Now,
	}, nil
}

func (s *jwtService) Issue(subject string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign session token")
	}

	return token, expiresAt, nil
}

func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "validate session token")
	}

	return claims, nil
}
