package gormstore

import (
	"context"

	"cafeadmin/internal/domain/entity"
	"cafeadmin/internal/domain/repository"
	"cafeadmin/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// cafeImageRepository implements repository.CafeImageRepository on GORM.
type cafeImageRepository struct {
	db *gorm.DB
}

// NewCafeImageRepository is the constructor for cafeImageRepository.
func NewCafeImageRepository(db *gorm.DB) repository.CafeImageRepository {
	return &cafeImageRepository{db: db}
}

func (repo *cafeImageRepository) SelectByCafeID(ctx context.Context, cafeID string) ([]*entity.CafeImageRow, error) {
	var models []*model.CafeImageModel
	if err := repo.db.WithContext(ctx).
		Where("cafe_id = ?", cafeID).
		Order("display_order ASC").
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to select cafe images")
	}

	rows := make([]*entity.CafeImageRow, 0, len(models))
	for _, m := range models {
		row, err := toCafeImageDomain(m)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (repo *cafeImageRepository) DeleteByCafeID(ctx context.Context, cafeID string) error {
	err := repo.db.WithContext(ctx).Where("cafe_id = ?", cafeID).Delete(&model.CafeImageModel{}).Error

	return errors.Wrap(err, "failed to delete cafe images")
}

// InsertMany writes every row in one statement, so a failure stores none of them.
func (repo *cafeImageRepository) InsertMany(ctx context.Context, rows []*entity.CafeImageRow) error {
	if len(rows) == 0 {
		return nil
	}

	models := make([]*model.CafeImageModel, 0, len(rows))
	for _, row := range rows {
		if row == nil || row.CafeID == "" || row.ImagePath == "" {
			return errors.New("image row needs a cafe id and a path")
		}
		if !row.Category.Valid() {
			return errors.Wrapf(entity.ErrUnknownImageCategory, "%d", row.Category)
		}
		m := fromCafeImageDomain(row)
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		models = append(models, m)
	}

	return translateWriteError(repo.db.WithContext(ctx).Create(&models).Error, "failed to insert cafe images")
}
