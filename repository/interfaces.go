package repository

import (
	"context"

	"github.com/oneair/oneair-store-api/models"
)

// OrderFields is a partial update of an order; nil fields are left untouched
type OrderFields struct {
	CustomerName    *string
	Phone           *string
	ShippingAddress *string
	Notes           *string
	Status          *models.OrderStatus
}

// Empty reports whether no field is set
func (f OrderFields) Empty() bool {
	return f.CustomerName == nil && f.Phone == nil && f.ShippingAddress == nil && f.Notes == nil && f.Status == nil
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	UpdateFields(ctx context.Context, id string, fields OrderFields) error

	// TransitionStatus writes to only if the stored status is still from.
	TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) error

	DeleteLineItems(ctx context.Context, orderID string) error
	DeleteAuditRecords(ctx context.Context, orderID string) error
	Delete(ctx context.Context, id string) error
}

type InventoryLedger interface {
	GetStock(ctx context.Context, productID string) (int, error)
	AdjustStock(ctx context.Context, productID string, delta int) (int, error)
}

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	SetImageKey(ctx context.Context, id string, key *string) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (*models.StoreSettings, error)
	Save(ctx context.Context, settings *models.StoreSettings) error
}

// Store groups the repositories the order lifecycle needs so they can share a transaction.
type Store interface {
	Orders() OrderRepository
	Inventory() InventoryLedger
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
