package gormstore

import (
	"context"
	"strings"

	"cafeadmin/internal/domain/entity"
	"cafeadmin/internal/domain/repository"
	"cafeadmin/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// cafeRepository implements repository.CafeRepository on GORM.
type cafeRepository struct {
	db *gorm.DB
}

// NewCafeRepository is the constructor for cafeRepository.
func NewCafeRepository(db *gorm.DB) repository.CafeRepository {
	return &cafeRepository{db: db}
}

func (repo *cafeRepository) Select(ctx context.Context, id string) (*entity.CafeRow, error) {
	var m model.CafeModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCafeNotFound
		}

		return nil, errors.Wrap(err, "failed to select cafe")
	}

	return toCafeDomain(&m), nil
}

func (repo *cafeRepository) Insert(ctx context.Context, row *entity.CafeRow) (*entity.CafeRow, error) {
	m := fromCafeDomain(row)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	if err := repo.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, translateWriteError(err, "failed to insert cafe")
	}

	return toCafeDomain(m), nil
}

func (repo *cafeRepository) Update(ctx context.Context, id string, row *entity.CafeRow) (*entity.CafeRow, error) {
	m := fromCafeDomain(row)
	m.ID = id

	// Select("*") writes zero values too: a cleared column must be cleared in the store.
	result := repo.db.WithContext(ctx).
		Model(&model.CafeModel{}).
		Where("id = ?", id).
		Select("*").
		Omit("id").
		Updates(m)
	if result.Error != nil {
		return nil, translateWriteError(result.Error, "failed to update cafe")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrCafeNotFound
	}

	return toCafeDomain(m), nil
}

func (repo *cafeRepository) Delete(ctx context.Context, id string) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CafeModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete cafe")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCafeNotFound
	}

	return nil
}

func (repo *cafeRepository) List(ctx context.Context, filter entity.CafeFilter) ([]*entity.CafeRow, error) {
	query := repo.db.WithContext(ctx).Model(&model.CafeModel{})

	if !filter.IncludeDeleted {
		query = query.Where("deleted_at IS NULL")
	}
	if filter.Area != "" {
		query = query.Where("area = ?", filter.Area)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.WifiOnly {
		query = query.Where("wifi = ?", true)
	}
	if keyword := strings.ToLower(strings.TrimSpace(filter.Keyword)); keyword != "" {
		pattern := "%" + escapeLike(keyword) + "%"
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(area) LIKE ? ESCAPE '\' OR LOWER(address) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}

	var models []*model.CafeModel
	if err := query.
		Order("CASE WHEN updated_at IS NULL THEN 1 ELSE 0 END").
		Order("updated_at DESC").
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list cafes")
	}

	rows := make([]*entity.CafeRow, 0, len(models))
	for _, m := range models {
		rows = append(rows, toCafeDomain(m))
	}

	return rows, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
