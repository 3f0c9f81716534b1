package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every legal status in display order
var OrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled}

// Valid reports whether s is one of the legal statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

// Label returns the Arabic label shown in the admin console
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "قيد التنفيذ"
	case OrderStatusConfirmed:
		return "مؤكد"
	case OrderStatusCancelled:
		return "ملغي/مسترجع"
	}
	return string(s)
}

// Order represents a customer purchase placed through the storefront checkout
type Order struct {
	ID              string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CustomerName    string      `gorm:"not null" json:"customer_name"`
	Phone           string      `gorm:"not null;index" json:"phone"`
	ShippingAddress string      `gorm:"not null" json:"shipping_address"`
	Notes           *string     `json:"notes"`
	Email           *string     `json:"email,omitempty"`
	TotalAmount     float64     `gorm:"not null;check:total_amount >= 0" json:"total_amount"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
	CreatedAt       time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns an id when the caller did not supply one
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}

// ShortID is the 8-character prefix used in email subjects and alerts
func (o *Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

// NewOrder builds a pending order whose total is the sum of its line items
func NewOrder(customerName, phone, address string, items []OrderItem) *Order {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.PriceAtTime
	}

	return &Order{
		ID:              uuid.New().String(),
		CustomerName:    customerName,
		Phone:           phone,
		ShippingAddress: address,
		TotalAmount:     total,
		Status:          OrderStatusPending,
		Items:           items,
	}
}
