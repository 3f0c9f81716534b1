package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog entry; this service only reads it and adjusts its stock
type Product struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	NameEn     string    `json:"name_en"`
	Price      float64   `gorm:"not null" json:"price"`
	Stock      int       `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	ImageS3Key *string   `json:"image_s3_key"`                 // nullable, S3 key for uploaded image
	ImageURL   *string   `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for image
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns an id when the caller did not supply one
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
