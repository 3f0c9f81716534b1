package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oneair/oneair-store-api/models"
	"gorm.io/gorm"
)

type inventoryLedger struct {
	db *gorm.DB
}

func NewInventoryLedger(db *gorm.DB) InventoryLedger {
	return &inventoryLedger{db: db}
}

func (l *inventoryLedger) GetStock(ctx context.Context, productID string) (int, error) {
	var product models.Product
	err := l.db.WithContext(ctx).Select("id", "stock").Where("id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return 0, fmt.Errorf("failed to read stock of product %s: %w", productID, err)
	}
	return product.Stock, nil
}

// AdjustStock applies delta in a single statement and floors the result at zero.
func (l *inventoryLedger) AdjustStock(ctx context.Context, productID string, delta int) (int, error) {
	result := l.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("CASE WHEN stock + ? < 0 THEN 0 ELSE stock + ? END", delta, delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: failed to adjust stock of product %s: %v", ErrStoreWrite, productID, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}

	return l.GetStock(ctx, productID)
}
