package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oneair/oneair-store-api/models"
	"github.com/oneair/oneair-store-api/repository"
)

// ErrInvalidTransition is returned for status changes the order lifecycle does not define
var ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", repository.ErrValidation)

var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusCancelled},
}

// CanTransition reports whether an order in status from may be moved to to.
// Re-applying the current status is always allowed and has no stock effect.
// Statuses written before the three-state lifecycle may move to any legal status.
func CanTransition(from, to models.OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to || !from.Valid() {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StockRestoration is the outcome of returning one line item's quantity to stock
type StockRestoration struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Stock     int    `json:"stock,omitempty"`   // stock after restoration
	Skipped   bool   `json:"skipped,omitempty"` // product no longer exists
	Error     string `json:"error,omitempty"`
}

// TransitionResult describes a completed status change
type TransitionResult struct {
	Order        *models.Order      `json:"order"`
	Previous     models.OrderStatus `json:"previous_status"`
	Restorations []StockRestoration `json:"restorations"`
	Notified     bool               `json:"notified"`
}

// RestorationFailures counts line items whose stock could not be restored
func (r *TransitionResult) RestorationFailures() int {
	n := 0
	for _, restoration := range r.Restorations {
		if restoration.Error != "" {
			n++
		}
	}
	return n
}

// DeletionResult describes a completed order deletion
type DeletionResult struct {
	OrderID      string             `json:"order_id"`
	Restorations []StockRestoration `json:"restorations"`
}

// OrderEdit is a field-level update from the admin edit form; nil fields are left untouched
type OrderEdit struct {
	CustomerName    *string `json:"customer_name"`
	Phone           *string `json:"phone"`
	ShippingAddress *string `json:"shipping_address"`
	Notes           *string `json:"notes"`
	Status          *string `json:"status"`
}

// EditResult is the edited order and, when the edit changed the status, the transition it triggered
type EditResult struct {
	Order      *models.Order     `json:"order"`
	Transition *TransitionResult `json:"transition,omitempty"`
}

// OrderManager is the only component allowed to change an order's status or delete it.
// It keeps product stock consistent with those changes and sends cancellation notices.
type OrderManager struct {
	store    repository.Store
	settings repository.SettingsRepository
	notifier Notifier
	logger   *slog.Logger
}

var orderManagerInstance *OrderManager

func NewOrderManager(store repository.Store, settings repository.SettingsRepository, notifier Notifier, logger *slog.Logger) *OrderManager {
	return &OrderManager{
		store:    store,
		settings: settings,
		notifier: notifier,
		logger:   logger,
	}
}

// InitOrderManager builds the manager and installs it as the global instance
func InitOrderManager(store repository.Store, settings repository.SettingsRepository, notifier Notifier, logger *slog.Logger) *OrderManager {
	orderManagerInstance = NewOrderManager(store, settings, notifier, logger)
	return orderManagerInstance
}

// GetOrderManager returns the initialized order manager
func GetOrderManager() *OrderManager {
	return orderManagerInstance
}

// SetOrderManager sets the order manager instance (primarily for testing)
func SetOrderManager(m *OrderManager) {
	orderManagerInstance = m
}

// ListOrders returns every order with its items, newest first
func (m *OrderManager) ListOrders(ctx context.Context) ([]models.Order, error) {
	return m.store.Orders().GetAll(ctx)
}

// GetOrder returns one order with its items
func (m *OrderManager) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return m.store.Orders().GetByID(ctx, orderID)
}

// ChangeStatus moves an order to newStatus. Entering cancelled restores the stock of every
// line item and notifies the customer, exactly once per order. Restoration and notification
// failures are logged and reported in the result; only a failed status write fails the call.
func (m *OrderManager) ChangeStatus(ctx context.Context, orderID string, newStatus models.OrderStatus) (*TransitionResult, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", repository.ErrValidation, newStatus)
	}

	orders := m.store.Orders()
	order, err := orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if !CanTransition(previous, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, previous, newStatus)
	}

	// Conditional on previous so that concurrent cancels enter cancelled only once
	if err := orders.TransitionStatus(ctx, orderID, previous, newStatus); err != nil {
		return nil, err
	}
	order.Status = newStatus
	order.UpdatedAt = time.Now().UTC()

	result := &TransitionResult{Order: order, Previous: previous}

	if newStatus == models.OrderStatusCancelled && previous != models.OrderStatusCancelled {
		result.Restorations, _ = restoreStock(ctx, m.store.Inventory(), order, false, m.logger)
		result.Notified = m.notify(ctx, order, NotificationOrderCancelled)
	}

	m.logger.Info("order status changed",
		slog.String("order_id", orderID),
		slog.String("from", string(previous)),
		slog.String("to", string(newStatus)),
		slog.Int("restored_items", len(result.Restorations)),
		slog.Int("restoration_failures", result.RestorationFailures()))

	return result, nil
}

// DeleteOrder restores stock for every line item, whatever the order's status, then removes
// the items, the order's analytics events and the order in one transaction.
func (m *OrderManager) DeleteOrder(ctx context.Context, orderID string) (*DeletionResult, error) {
	order, err := m.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := &DeletionResult{OrderID: orderID}
	err = m.store.Transaction(ctx, func(tx repository.Store) error {
		restorations, err := restoreStock(ctx, tx.Inventory(), order, true, m.logger)
		if err != nil {
			return err
		}
		result.Restorations = restorations

		orders := tx.Orders()
		if err := orders.DeleteLineItems(ctx, orderID); err != nil {
			return err
		}
		if err := orders.DeleteAuditRecords(ctx, orderID); err != nil {
			return err
		}
		return orders.Delete(ctx, orderID)
	})
	if err != nil {
		m.logger.Error("order deletion rolled back", slog.String("order_id", orderID), slog.Any("error", err))
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrStoreWrite) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: delete order %s: %v", repository.ErrStoreWrite, orderID, err)
	}

	m.logger.Info("order deleted",
		slog.String("order_id", orderID),
		slog.Int("restored_items", len(result.Restorations)))

	return result, nil
}

// EditFields writes the customer fields of an order as given. A status that differs from the
// stored one goes through ChangeStatus so editing cannot skip stock restoration.
func (m *OrderManager) EditFields(ctx context.Context, orderID string, edit OrderEdit) (*EditResult, error) {
	var newStatus *models.OrderStatus
	if edit.Status != nil {
		status := models.OrderStatus(*edit.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", repository.ErrValidation, status)
		}
		newStatus = &status
	}

	orders := m.store.Orders()
	order, err := orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	statusChanges := newStatus != nil && *newStatus != order.Status
	if statusChanges && !CanTransition(order.Status, *newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, *newStatus)
	}

	// The status goes first so a lost race leaves the customer fields untouched
	result := &EditResult{}
	if statusChanges {
		transition, err := m.ChangeStatus(ctx, orderID, *newStatus)
		if err != nil {
			return nil, err
		}
		result.Transition = transition
	}

	fields := repository.OrderFields{
		CustomerName:    edit.CustomerName,
		Phone:           edit.Phone,
		ShippingAddress: edit.ShippingAddress,
		Notes:           edit.Notes,
	}
	if !fields.Empty() {
		if err := orders.UpdateFields(ctx, orderID, fields); err != nil {
			return nil, err
		}
	}

	result.Order, err = orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BulkCancel cancels every order in ids, one after another
func (m *OrderManager) BulkCancel(ctx context.Context, ids []string) (*BulkResult, error) {
	return m.bulk(ctx, "cancel", ids, func(id string) error {
		_, err := m.ChangeStatus(ctx, id, models.OrderStatusCancelled)
		return err
	})
}

// BulkDelete deletes every order in ids, one after another
func (m *OrderManager) BulkDelete(ctx context.Context, ids []string) (*BulkResult, error) {
	return m.bulk(ctx, "delete", ids, func(id string) error {
		_, err := m.DeleteOrder(ctx, id)
		return err
	})
}

func (m *OrderManager) bulk(ctx context.Context, action string, ids []string, apply func(id string) error) (*BulkResult, error) {
	unique := NewSelection(ids...).IDs()
	if len(unique) == 0 {
		return nil, fmt.Errorf("%w: select at least one order", repository.ErrValidation)
	}

	result := &BulkResult{Outcomes: make([]BulkOutcome, 0, len(unique))}
	for _, id := range unique {
		result.record(id, apply(id))
	}

	m.logger.Info("bulk order action finished",
		slog.String("action", action),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed))

	return result, nil
}

func (m *OrderManager) notify(ctx context.Context, order *models.Order, kind NotificationType) bool {
	settings, err := m.settings.Get(ctx)
	if err != nil {
		m.logger.Warn("store settings unavailable, skipping notification",
			slog.String("order_id", order.ID), slog.Any("error", err))
		return false
	}

	if err := m.notifier.Notify(ctx, NewOrderNotification(order, kind), settings); err != nil {
		m.logger.Error("order notification failed",
			slog.String("order_id", order.ID),
			slog.String("type", string(kind)),
			slog.Any("error", err))
		return false
	}
	return true
}

// restoreStock returns each line item's quantity to its product. Items whose product is gone
// are skipped. With strict set the first other failure is returned; otherwise it is logged,
// recorded and the remaining items are still attempted.
func restoreStock(ctx context.Context, ledger repository.InventoryLedger, order *models.Order, strict bool, logger *slog.Logger) ([]StockRestoration, error) {
	var out []StockRestoration
	for _, item := range order.Items {
		if item.ProductID == nil || *item.ProductID == "" {
			continue
		}

		restoration := StockRestoration{ProductID: *item.ProductID, Quantity: item.Quantity}
		stock, err := ledger.AdjustStock(ctx, *item.ProductID, item.Quantity)
		switch {
		case err == nil:
			restoration.Stock = stock
		case errors.Is(err, repository.ErrNotFound):
			restoration.Skipped = true
			logger.Debug("product no longer exists, skipping restoration",
				slog.String("order_id", order.ID), slog.String("product_id", *item.ProductID))
		default:
			if strict {
				return out, err
			}
			restoration.Error = err.Error()
			logger.Error("stock restoration failed",
				slog.String("order_id", order.ID),
				slog.String("product_id", *item.ProductID),
				slog.Int("quantity", item.Quantity),
				slog.Any("error", err))
		}
		out = append(out, restoration)
	}
	return out, nil
}
