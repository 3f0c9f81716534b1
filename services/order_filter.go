package services

import (
	"strings"

	"github.com/oneair/oneair-store-api/models"
)

// StatusAll disables status filtering
const StatusAll = "all"

// OrderFilter is the search box and status dropdown of the orders screen
type OrderFilter struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

// Matches reports whether order passes the filter. Search matches the customer name and
// order id case-insensitively and the phone number as a substring.
func (f OrderFilter) Matches(order *models.Order) bool {
	if f.Status != "" && f.Status != StatusAll && string(order.Status) != f.Status {
		return false
	}

	term := strings.TrimSpace(f.Search)
	if term == "" {
		return true
	}
	lower := strings.ToLower(term)
	return strings.Contains(strings.ToLower(order.CustomerName), lower) ||
		strings.Contains(order.Phone, term) ||
		strings.Contains(strings.ToLower(order.ID), lower)
}

// FilterOrders returns the orders that pass f, keeping their order
func FilterOrders(orders []models.Order, f OrderFilter) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for i := range orders {
		if f.Matches(&orders[i]) {
			out = append(out, orders[i])
		}
	}
	return out
}

// OrderStats are the counters shown above the orders table
type OrderStats struct {
	Total     int                        `json:"total"`
	Cancelled int                        `json:"cancelled"`
	ByStatus  map[models.OrderStatus]int `json:"by_status"`
	Revenue   float64                    `json:"revenue"` // total of orders not cancelled
}

func ComputeStats(orders []models.Order) OrderStats {
	stats := OrderStats{Total: len(orders), ByStatus: make(map[models.OrderStatus]int, len(models.OrderStatuses))}
	for _, status := range models.OrderStatuses {
		stats.ByStatus[status] = 0
	}
	for _, order := range orders {
		stats.ByStatus[order.Status]++
		if order.Status == models.OrderStatusCancelled {
			stats.Cancelled++
			continue
		}
		stats.Revenue += order.TotalAmount
	}
	return stats
}
