package service

import "cafeadmin/internal/domain/entity"

// CredentialChecker decides whether a submitted credential matches the configured admin.
type CredentialChecker interface {
	Check(cred entity.Credential) bool
}
