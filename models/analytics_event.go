package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsEvent is a storefront tracking record; purchase events carry the order id
type AnalyticsEvent struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	EventType  string    `gorm:"not null;index" json:"event_type"` // page_view, add_to_cart, complete_purchase, ...
	OrderID    *string   `gorm:"type:varchar(36);index" json:"order_id"`
	ProductID  *string   `gorm:"type:varchar(36)" json:"product_id"`
	OrderTotal float64   `json:"order_total"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the AnalyticsEvent model
func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}

// BeforeCreate assigns an id when the caller did not supply one
func (e *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
