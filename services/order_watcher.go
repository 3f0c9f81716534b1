package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oneair/oneair-store-api/models"
)

// OrderLister is the read side the watcher polls
type OrderLister interface {
	GetAll(ctx context.Context) ([]models.Order, error)
}

// NewOrderAlert is raised when the order count grows between two polls
type NewOrderAlert struct {
	OrderID      string    `json:"order_id"`
	ShortID      string    `json:"short_id"`
	CustomerName string    `json:"customer_name"`
	Total        float64   `json:"total"`
	NewOrders    int       `json:"new_orders"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	SoundURL     string    `json:"sound_url,omitempty"`
	DetectedAt   time.Time `json:"detected_at"`
}

// Alerter receives new-order alerts
type Alerter interface {
	Alert(ctx context.Context, alert NewOrderAlert)
}

// OrderWatcher re-fetches the order list on a fixed interval and raises an alert when it grew.
// Detection compares counts, not ids: an order placed in the same interval as a deletion
// leaves the count unchanged and is not reported.
type OrderWatcher struct {
	orders   OrderLister
	alerter  Alerter
	interval time.Duration
	soundURL string
	logger   *slog.Logger

	mu        sync.Mutex
	primed    bool
	lastCount int
}

func NewOrderWatcher(orders OrderLister, alerter Alerter, interval time.Duration, soundURL string, logger *slog.Logger) *OrderWatcher {
	return &OrderWatcher{
		orders:   orders,
		alerter:  alerter,
		interval: interval,
		soundURL: soundURL,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled. The first poll happens immediately and only records the baseline.
func (w *OrderWatcher) Run(ctx context.Context) error {
	w.logger.Info("order watcher started", slog.Duration("poll_interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("order watcher stopping")
			return nil
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *OrderWatcher) tick(ctx context.Context) {
	if _, err := w.Poll(ctx); err != nil {
		w.logger.Error("order poll failed", slog.Any("error", err))
	}
}

// Poll fetches the orders once and returns the alert it raised, if any
func (w *OrderWatcher) Poll(ctx context.Context) (*NewOrderAlert, error) {
	orders, err := w.orders.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("poll orders: %w", err)
	}

	w.mu.Lock()
	previous, primed := w.lastCount, w.primed
	w.lastCount, w.primed = len(orders), true
	w.mu.Unlock()

	if !primed || len(orders) <= previous {
		return nil, nil
	}

	// Orders are newest first
	newest := orders[0]
	alert := NewOrderAlert{
		OrderID:      newest.ID,
		ShortID:      newest.ShortID(),
		CustomerName: newest.CustomerName,
		Total:        newest.TotalAmount,
		NewOrders:    len(orders) - previous,
		Title:        "🔔 طلب جديد!",
		Message:      fmt.Sprintf("تم استلام طلب جديد من %s", newest.CustomerName),
		SoundURL:     w.soundURL,
		DetectedAt:   time.Now().UTC(),
	}

	w.logger.Info("new order detected",
		slog.String("order_id", alert.OrderID),
		slog.Int("new_orders", alert.NewOrders))
	w.alerter.Alert(ctx, alert)

	return &alert, nil
}
