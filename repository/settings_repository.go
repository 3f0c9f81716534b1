package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/oneair/oneair-store-api/models"
	"gorm.io/gorm"
)

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := r.db.WithContext(ctx).Order("id").First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: store settings", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch store settings: %w", err)
	}
	return &settings, nil
}

// Save upserts the single settings row.
func (r *settingsRepo) Save(ctx context.Context, settings *models.StoreSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings cannot be nil", ErrValidation)
	}

	if settings.ID == 0 {
		if existing, err := r.Get(ctx); err == nil {
			settings.ID = existing.ID
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return fmt.Errorf("%w: failed to save store settings: %v", ErrStoreWrite, err)
	}
	return nil
}
