package service

import (
	"context"

	"cafeadmin/internal/domain/entity"
)

// PostalLookup resolves a 7-digit postal code to an address.
type PostalLookup interface {
	Lookup(ctx context.Context, postalCode string) (*entity.PostalAddress, error)
}
