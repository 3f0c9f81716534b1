package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oneair/oneair-store-api/models"
	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("%w: order cannot be nil", ErrValidation)
	}
	if len(order.Items) == 0 {
		return fmt.Errorf("%w: order must have at least one item", ErrValidation)
	}
	for _, item := range order.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}
	}
	if order.Status != "" && !order.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, order.Status)
	}

	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("%w: failed to create order: %v", ErrStoreWrite, err)
	}
	return nil
}

func (r *orderRepo) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}
	return &order, nil
}

func (r *orderRepo) UpdateFields(ctx context.Context, id string, fields OrderFields) error {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if fields.CustomerName != nil {
		updates["customer_name"] = *fields.CustomerName
	}
	if fields.Phone != nil {
		updates["phone"] = *fields.Phone
	}
	if fields.ShippingAddress != nil {
		updates["shipping_address"] = *fields.ShippingAddress
	}
	if fields.Notes != nil {
		updates["notes"] = *fields.Notes
	}
	if fields.Status != nil {
		if !fields.Status.Valid() {
			return fmt.Errorf("%w: unknown status %q", ErrValidation, *fields.Status)
		}
		updates["status"] = *fields.Status
	}

	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("%w: failed to update order %s: %v", ErrStoreWrite, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return nil
}

func (r *orderRepo) TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return fmt.Errorf("%w: failed to update status of order %s: %v", ErrStoreWrite, id, result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: failed to check order %s after status update: %v", ErrStoreWrite, id, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return fmt.Errorf("%w: order %s is no longer %s", ErrConflict, id, from)
}

func (r *orderRepo) DeleteLineItems(ctx context.Context, orderID string) error {
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error
	if err != nil {
		return fmt.Errorf("%w: failed to delete items of order %s: %v", ErrStoreWrite, orderID, err)
	}
	return nil
}

func (r *orderRepo) DeleteAuditRecords(ctx context.Context, orderID string) error {
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.AnalyticsEvent{}).Error
	if err != nil {
		return fmt.Errorf("%w: failed to delete analytics of order %s: %v", ErrStoreWrite, orderID, err)
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{})
	if result.Error != nil {
		return fmt.Errorf("%w: failed to delete order %s: %v", ErrStoreWrite, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return nil
}
