package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/oneair/oneair-store-api/models"
	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return &product, nil
}

func (r *productRepo) SetImageKey(ctx context.Context, id string, key *string) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("image_s3_key", key)
	if result.Error != nil {
		return fmt.Errorf("%w: failed to set image of product %s: %v", ErrStoreWrite, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return nil
}
