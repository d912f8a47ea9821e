package usecase

import (
	"context"

	"cafeadmin/internal/domain/entity"
)

// CafeUsecase defines the write protocol and reads for café listings.
type CafeUsecase interface {
	// Create uploads pending images, inserts the record and its image rows.
	Create(ctx context.Context, payload *entity.CafeFormPayload) (*entity.Cafe, error)
	// Update replaces an existing record and its image rows.
	Update(ctx context.Context, id string, payload *entity.CafeFormPayload) (*entity.Cafe, error)
	// Delete soft-deletes a record.
	Delete(ctx context.Context, id string) (*entity.Cafe, error)
	Get(ctx context.Context, id string) (*entity.Cafe, error)
	List(ctx context.Context, filter entity.CafeFilter) ([]*entity.Cafe, error)
}
