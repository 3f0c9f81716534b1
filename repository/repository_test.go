package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oneair/oneair-store-api/models"
	"github.com/oneair/oneair-store-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testutil.MustSetTestEnvironment(t)
	return testutil.NewTestDB(t)
}

func strPtr(s string) *string { return &s }

func seedProduct(t *testing.T, db *gorm.DB, id string, stock int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Product{ID: id, Name: id, Price: 100, Stock: stock}).Error)
}

func seedOrder(t *testing.T, db *gorm.DB, id string, status models.OrderStatus, createdAt time.Time, items ...models.OrderItem) *models.Order {
	t.Helper()
	order := models.NewOrder("Customer "+id, "0100"+id, "Cairo", items)
	order.ID = id
	order.Status = status
	order.CreatedAt = createdAt
	require.NoError(t, NewOrderRepository(db).Create(context.Background(), order))
	return order
}

func TestOrderRepository_CreateAndGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	seedOrder(t, db, "O1", models.OrderStatusPending, time.Now(),
		models.OrderItem{ProductID: strPtr("A"), ProductName: "Split AC", Quantity: 2, PriceAtTime: 100},
		models.OrderItem{ProductID: nil, ProductName: "Deleted product", Quantity: 1, PriceAtTime: 50},
	)

	order, err := repo.GetByID(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, "Customer O1", order.CustomerName)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 250.0, order.TotalAmount)
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.Equal(t, "O1", item.OrderID)
		assert.NotEmpty(t, item.ID)
	}
}

func TestOrderRepository_CreateValidation(t *testing.T) {
	repo := NewOrderRepository(setupTestDB(t))
	ctx := context.Background()

	tests := []struct {
		name  string
		order *models.Order
	}{
		{"nil order", nil},
		{"no items", &models.Order{CustomerName: "x"}},
		{"zero quantity", &models.Order{Items: []models.OrderItem{{ProductName: "x", Quantity: 0}}}},
		{"bad status", &models.Order{Status: "shipped", Items: []models.OrderItem{{ProductName: "x", Quantity: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.order)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestOrderRepository_GetByIDNotFound(t *testing.T) {
	repo := NewOrderRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderRepository_GetAllNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	item := models.OrderItem{ProductName: "AC", Quantity: 1, PriceAtTime: 10}

	seedOrder(t, db, "old", models.OrderStatusPending, now.Add(-2*time.Hour), item)
	seedOrder(t, db, "new", models.OrderStatusPending, now, item)
	seedOrder(t, db, "mid", models.OrderStatusConfirmed, now.Add(-time.Hour), item)

	orders, err := NewOrderRepository(db).GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "new", orders[0].ID)
	assert.Equal(t, "mid", orders[1].ID)
	assert.Equal(t, "old", orders[2].ID)
	assert.Len(t, orders[0].Items, 1)
}

func TestOrderRepository_UpdateFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	seedOrder(t, db, "O1", models.OrderStatusPending, time.Now(),
		models.OrderItem{ProductName: "AC", Quantity: 3, PriceAtTime: 30})

	err := repo.UpdateFields(ctx, "O1", OrderFields{
		CustomerName: strPtr("Mona"),
		Notes:        strPtr("call before delivery"),
	})
	require.NoError(t, err)

	order, err := repo.GetByID(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, "Mona", order.CustomerName)
	assert.Equal(t, "call before delivery", *order.Notes)
	assert.Equal(t, "0100O1", order.Phone, "untouched fields keep their value")
	assert.Equal(t, 90.0, order.TotalAmount, "total is never re-derived")
}

func TestOrderRepository_UpdateFieldsErrors(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	seedOrder(t, db, "O1", models.OrderStatusPending, time.Now(),
		models.OrderItem{ProductName: "AC", Quantity: 1, PriceAtTime: 30})

	shipped := models.OrderStatus("shipped")
	err := repo.UpdateFields(ctx, "O1", OrderFields{Status: &shipped})
	assert.ErrorIs(t, err, ErrValidation)

	err = repo.UpdateFields(ctx, "missing", OrderFields{Phone: strPtr("1")})
	assert.ErrorIs(t, err, ErrNotFound)

	order, err := repo.GetByID(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestOrderRepository_TransitionStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	created := seedOrder(t, db, "O1", models.OrderStatusPending, time.Now().Add(-time.Minute),
		models.OrderItem{ProductName: "AC", Quantity: 1, PriceAtTime: 30})

	require.NoError(t, repo.TransitionStatus(ctx, "O1", models.OrderStatusPending, models.OrderStatusConfirmed))

	order, err := repo.GetByID(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.True(t, order.UpdatedAt.After(created.UpdatedAt) || order.UpdatedAt.Equal(created.UpdatedAt))

	err = repo.TransitionStatus(ctx, "O1", models.OrderStatusPending, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrConflict, "stale from-status must not overwrite")

	err = repo.TransitionStatus(ctx, "missing", models.OrderStatusPending, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.TransitionStatus(ctx, "O1", models.OrderStatusConfirmed, "returned")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderRepository_TransitionStatusCheckFailureIsStoreWrite(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	seedOrder(t, db, "O1", models.OrderStatusCancelled, time.Now(),
		models.OrderItem{ProductName: "AC", Quantity: 1, PriceAtTime: 30})

	// The conditional update matches nothing, then the existence check fails
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:fail_query", func(tx *gorm.DB) {
		tx.AddError(errors.New("connection reset"))
	}))

	err := repo.TransitionStatus(ctx, "O1", models.OrderStatusPending, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrStoreWrite)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestOrderRepository_Deletes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	seedOrder(t, db, "O1", models.OrderStatusPending, time.Now(),
		models.OrderItem{ProductName: "AC", Quantity: 1, PriceAtTime: 30})
	seedOrder(t, db, "O2", models.OrderStatusPending, time.Now(),
		models.OrderItem{ProductName: "AC", Quantity: 1, PriceAtTime: 30})
	require.NoError(t, db.Create(&models.AnalyticsEvent{EventType: "complete_purchase", OrderID: strPtr("O1")}).Error)
	require.NoError(t, db.Create(&models.AnalyticsEvent{EventType: "page_view"}).Error)

	require.NoError(t, repo.DeleteLineItems(ctx, "O1"))
	require.NoError(t, repo.DeleteAuditRecords(ctx, "O1"))
	require.NoError(t, repo.Delete(ctx, "O1"))

	var items, events int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", "O1").Count(&items)
	db.Model(&models.AnalyticsEvent{}).Count(&events)
	assert.Zero(t, items)
	assert.Equal(t, int64(1), events, "unrelated analytics survive")

	_, err := repo.GetByID(ctx, "O1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "O1"), ErrNotFound)

	_, err = repo.GetByID(ctx, "O2")
	assert.NoError(t, err)
}

func TestInventoryLedger(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewInventoryLedger(db)
	ctx := context.Background()
	seedProduct(t, db, "A", 5)

	stock, err := ledger.GetStock(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 5, stock)

	stock, err = ledger.AdjustStock(ctx, "A", 2)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)

	stock, err = ledger.AdjustStock(ctx, "A", -10)
	require.NoError(t, err)
	assert.Equal(t, 0, stock, "stock is floored at zero")

	_, err = ledger.GetStock(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ledger.AdjustStock(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreTransactionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()
	seedProduct(t, db, "A", 5)

	err := store.Transaction(ctx, func(tx Store) error {
		if _, err := tx.Inventory().AdjustStock(ctx, "A", 3); err != nil {
			return err
		}
		return tx.Orders().Delete(ctx, "missing")
	})
	assert.ErrorIs(t, err, ErrNotFound)

	stock, err := store.Inventory().GetStock(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 5, stock, "adjustment inside a failed transaction is rolled back")
}

func TestStoreTransactionCommits(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()
	seedProduct(t, db, "A", 5)

	err := store.Transaction(ctx, func(tx Store) error {
		_, err := tx.Inventory().AdjustStock(ctx, "A", 3)
		return err
	})
	require.NoError(t, err)

	stock, err := store.Inventory().GetStock(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 8, stock)
}

func TestProductRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	seedProduct(t, db, "A", 1)

	require.NoError(t, repo.SetImageKey(ctx, "A", strPtr("products/A/1_unit.png")))
	product, err := repo.GetByID(ctx, "A")
	require.NoError(t, err)
	require.NotNil(t, product.ImageS3Key)
	assert.Equal(t, "products/A/1_unit.png", *product.ImageS3Key)

	require.NoError(t, repo.SetImageKey(ctx, "A", nil))
	product, err = repo.GetByID(ctx, "A")
	require.NoError(t, err)
	assert.Nil(t, product.ImageS3Key)

	assert.ErrorIs(t, repo.SetImageKey(ctx, "missing", nil), ErrNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettingsRepository(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Save(ctx, &models.StoreSettings{StoreName: "ون اير", NotificationEmail: "ops@oneair.example"}))
	require.NoError(t, repo.Save(ctx, &models.StoreSettings{StoreName: "OneAir", EmailNotificationsEnabled: true}))

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OneAir", settings.StoreName, "second save updates the single row")
	assert.True(t, settings.EmailNotificationsEnabled)

	assert.ErrorIs(t, repo.Save(ctx, nil), ErrValidation)
}
