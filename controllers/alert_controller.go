package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oneair/oneair-store-api/services"
)

// alertHeartbeat keeps idle proxies from closing the stream
var alertHeartbeat = 30 * time.Second

// StreamOrderAlerts handles GET /api/v1/admin/orders/alerts - a server-sent event stream of new-order alerts
func StreamOrderAlerts(c *gin.Context) {
	hub := services.GetAlertHub()
	if hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ALERTS_UNAVAILABLE",
				"message": "Order alerts are not enabled",
			},
		})
		return
	}

	alerts, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	slog.Debug("alert stream opened", slog.String("actor", actor(c)))

	heartbeat := time.NewTicker(alertHeartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("alert stream closed", slog.String("actor", actor(c)))
			return
		case alert, ok := <-alerts:
			if !ok {
				return
			}
			c.SSEvent("new_order", alert)
			c.Writer.Flush()
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			c.Writer.Flush()
		}
	}
}
