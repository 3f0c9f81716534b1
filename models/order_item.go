package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem is one product-and-quantity entry of an order, priced at order time
type OrderItem struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID     string  `gorm:"type:varchar(36);not null;index" json:"order_id"`
	ProductID   *string `gorm:"type:varchar(36);index" json:"product_id"` // nullable, product may have been deleted
	ProductName string  `gorm:"not null" json:"product_name"`             // snapshot, survives product deletion
	Quantity    int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	PriceAtTime float64 `gorm:"not null" json:"price_at_time"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// BeforeCreate assigns an id when the caller did not supply one
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
