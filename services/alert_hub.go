package services

import (
	"context"
	"sync"
)

const subscriberBuffer = 8

// AlertHub fans new-order alerts out to every connected admin console.
// A subscriber that falls behind loses alerts instead of blocking the watcher.
type AlertHub struct {
	mu          sync.Mutex
	subscribers map[chan NewOrderAlert]struct{}
}

func NewAlertHub() *AlertHub {
	return &AlertHub{subscribers: make(map[chan NewOrderAlert]struct{})}
}

// Subscribe registers a listener. The returned function unregisters it and closes the channel.
func (h *AlertHub) Subscribe() (<-chan NewOrderAlert, func()) {
	ch := make(chan NewOrderAlert, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *AlertHub) Alert(ctx context.Context, alert NewOrderAlert) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- alert:
		default:
		}
	}
}

// Subscribers returns the number of connected listeners
func (h *AlertHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

var alertHubInstance *AlertHub

// InitAlertHub creates the hub shared by the order watcher and the alert stream
func InitAlertHub() *AlertHub {
	alertHubInstance = NewAlertHub()
	return alertHubInstance
}

// GetAlertHub returns the initialized alert hub
func GetAlertHub() *AlertHub {
	return alertHubInstance
}

// SetAlertHub sets the alert hub instance (primarily for testing)
func SetAlertHub(h *AlertHub) {
	alertHubInstance = h
}
