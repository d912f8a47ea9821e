// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/subtle"

	"cafeadmin/config"
	"cafeadmin/internal/domain/entity"
	"cafeadmin/internal/domain/service"

	"golang.org/x/crypto/bcrypt"
)

// CheckCredential reports whether cred matches the configured admin id and
// bcrypt hash. An empty configured id or hash never matches.
func CheckCredential(adminID, passwordHash string, cred entity.Credential) bool {
	if adminID == "" || passwordHash == "" {
		return false
	}
	idMatch := subtle.ConstantTimeCompare([]byte(adminID), []byte(cred.ID)) == 1
	// always run bcrypt so a wrong id costs as much as a wrong password
	passwordMatch := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(cred.Password)) == nil

	return idMatch && passwordMatch
}

// credentialGate is the CredentialChecker bound to the configured admin.
type credentialGate struct {
	adminID      string
	passwordHash string
}

// NewCredentialGate is the constructor for credentialGate.
func NewCredentialGate(cfg *config.Config) service.CredentialChecker {
	return &credentialGate{
		adminID:      cfg.Admin.ID,
		passwordHash: cfg.Admin.PasswordHash,
	}
}

func (g *credentialGate) Check(cred entity.Credential) bool {
	return CheckCredential(g.adminID, g.passwordHash, cred)
}

// HashPassword produces a bcrypt hash suitable for admin.passwordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(hash), err
}
