package repository

import (
	"context"

	"gorm.io/gorm"
)

// GormStore is the gorm-backed Store
type GormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Orders() OrderRepository {
	return NewOrderRepository(s.db)
}

func (s *GormStore) Inventory() InventoryLedger {
	return NewInventoryLedger(s.db)
}

func (s *GormStore) Products() ProductRepository {
	return NewProductRepository(s.db)
}

// Transaction runs fn against a store bound to one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
