// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"cafeadmin/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrCafeNotFound is returned when no row exists for the requested id.
var ErrCafeNotFound = errors.New("cafe not found")

// CafeRepository is the record store for listings.
type CafeRepository interface {
	// Select returns the row with the given id, soft-deleted rows included.
	Select(ctx context.Context, id string) (*entity.CafeRow, error)

	// Insert stores a new row, assigning an id when none is set, and returns the stored row.
	Insert(ctx context.Context, row *entity.CafeRow) (*entity.CafeRow, error)

	// Update overwrites every column of an existing row and returns the stored row.
	Update(ctx context.Context, id string, row *entity.CafeRow) (*entity.CafeRow, error)

	// Delete physically removes a row. It exists only to roll back a failed creation.
	Delete(ctx context.Context, id string) error

	// List returns rows matching the filter, most recently updated first.
	List(ctx context.Context, filter entity.CafeFilter) ([]*entity.CafeRow, error)
}

// CafeImageRepository stores the associated-image rows of a listing.
type CafeImageRepository interface {
	// SelectByCafeID returns the rows of a listing ordered by display order.
	SelectByCafeID(ctx context.Context, cafeID string) ([]*entity.CafeImageRow, error)

	// DeleteByCafeID removes every row of a listing.
	DeleteByCafeID(ctx context.Context, cafeID string) error

	// InsertMany stores rows as given; rows without an id get one assigned.
	InsertMany(ctx context.Context, rows []*entity.CafeImageRow) error
}
