package models

import "time"

// StoreSettings is the single-row site configuration consulted when sending notifications
type StoreSettings struct {
	ID                        uint      `gorm:"primaryKey" json:"id"`
	StoreName                 string    `json:"store_name"`
	StoreNameEn               string    `json:"store_name_en"`
	StoreURL                  string    `json:"store_url"`
	StoreEmail                string    `json:"store_email"`
	StorePhone                string    `json:"store_phone"`
	SenderName                string    `json:"sender_name"`
	NotificationEmail         string    `json:"notification_email"`
	EmailNotificationsEnabled bool      `gorm:"not null;default:false" json:"email_notifications_enabled"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// TableName specifies the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "site_settings"
}

// All lists every model managed by AutoMigrate
func All() []interface{} {
	return []interface{}{&Product{}, &Order{}, &OrderItem{}, &AnalyticsEvent{}, &StoreSettings{}}
}
