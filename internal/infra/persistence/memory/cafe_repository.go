// Package memory provides process-local record stores. Nothing survives a restart.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"cafeadmin/internal/domain/entity"
	"cafeadmin/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type cafeRepository struct {
	mu   sync.RWMutex
	rows map[string]*entity.CafeRow
}

// NewCafeRepository creates an empty in-memory record store.
func NewCafeRepository() repository.CafeRepository {
	return &cafeRepository{rows: make(map[string]*entity.CafeRow)}
}

func (repo *cafeRepository) Select(_ context.Context, id string) (*entity.CafeRow, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	row, ok := repo.rows[id]
	if !ok {
		return nil, repository.ErrCafeNotFound
	}

	return row.Clone(), nil
}

func (repo *cafeRepository) Insert(_ context.Context, row *entity.CafeRow) (*entity.CafeRow, error) {
	stored := row.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.rows[stored.ID]; exists {
		return nil, errors.Errorf("cafe %s already exists", stored.ID)
	}
	repo.rows[stored.ID] = stored

	return stored.Clone(), nil
}

func (repo *cafeRepository) Update(_ context.Context, id string, row *entity.CafeRow) (*entity.CafeRow, error) {
	stored := row.Clone()
	stored.ID = id

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.rows[id]; !ok {
		return nil, repository.ErrCafeNotFound
	}
	repo.rows[id] = stored

	return stored.Clone(), nil
}

func (repo *cafeRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.rows[id]; !ok {
		return repository.ErrCafeNotFound
	}
	delete(repo.rows, id)

	return nil
}

func (repo *cafeRepository) List(_ context.Context, filter entity.CafeFilter) ([]*entity.CafeRow, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	out := make([]*entity.CafeRow, 0, len(repo.rows))
	for _, row := range repo.rows {
		if !matches(row, filter, keyword) {
			continue
		}
		out = append(out, row.Clone())
	}

	slices.SortFunc(out, func(a, b *entity.CafeRow) int {
		switch {
		case a.UpdatedAt == nil && b.UpdatedAt != nil:
			return 1
		case a.UpdatedAt != nil && b.UpdatedAt == nil:
			return -1
		case a.UpdatedAt != nil && b.UpdatedAt != nil && !a.UpdatedAt.Equal(*b.UpdatedAt):
			return b.UpdatedAt.Compare(*a.UpdatedAt)
		}

		return cmp.Compare(a.ID, b.ID)
	})

	return out, nil
}

func matches(row *entity.CafeRow, filter entity.CafeFilter, keyword string) bool {
	if row.DeletedAt != nil && !filter.IncludeDeleted {
		return false
	}
	if filter.Area != "" && row.Area != filter.Area {
		return false
	}
	if filter.Status != "" && row.Status != string(filter.Status) {
		return false
	}
	if filter.WifiOnly && !row.Wifi {
		return false
	}
	if keyword == "" {
		return true
	}
	for _, field := range []string{row.Name, row.Area, row.Address} {
		if strings.Contains(strings.ToLower(field), keyword) {
			return true
		}
	}

	return false
}
