package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"cafeadmin/internal/domain/entity"
	"cafeadmin/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type cafeImageRepository struct {
	mu   sync.RWMutex
	rows map[string][]entity.CafeImageRow
}

// NewCafeImageRepository creates an empty in-memory image-row store.
func NewCafeImageRepository() repository.CafeImageRepository {
	return &cafeImageRepository{rows: make(map[string][]entity.CafeImageRow)}
}

func (repo *cafeImageRepository) SelectByCafeID(_ context.Context, cafeID string) ([]*entity.CafeImageRow, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	stored := repo.rows[cafeID]
	out := make([]*entity.CafeImageRow, 0, len(stored))
	for i := range stored {
		row := stored[i]
		out = append(out, &row)
	}
	slices.SortStableFunc(out, func(a, b *entity.CafeImageRow) int {
		return cmp.Compare(a.DisplayOrder, b.DisplayOrder)
	})

	return out, nil
}

func (repo *cafeImageRepository) DeleteByCafeID(_ context.Context, cafeID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.rows, cafeID)

	return nil
}

// InsertMany is all-or-nothing: rows are checked before any is stored.
func (repo *cafeImageRepository) InsertMany(_ context.Context, rows []*entity.CafeImageRow) error {
	prepared := make([]entity.CafeImageRow, 0, len(rows))
	for _, row := range rows {
		if row == nil || row.CafeID == "" || row.ImagePath == "" {
			return errors.New("image row needs a cafe id and a path")
		}
		if !row.Category.Valid() {
			return errors.Wrapf(entity.ErrUnknownImageCategory, "%d", row.Category)
		}
		r := *row
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		prepared = append(prepared, r)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, r := range prepared {
		repo.rows[r.CafeID] = append(repo.rows[r.CafeID], r)
	}

	return nil
}
