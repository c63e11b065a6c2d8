package services

import (
	"context"
	"time"

	"github.com/kodekamper/api/internal/cache"
	"github.com/kodekamper/api/internal/db"
)

var startTime = time.Now()

// HealthStatus reports store and cache connectivity plus process uptime.
type HealthStatus struct {
	Status        string  `json:"status"`
	Mongo         string  `json:"mongo"`
	Redis         string  `json:"redis"`
	RedisMessage  string  `json:"redis_message,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// GetHealth pings both stores. The cache ping is bounded so a dead Redis
// cannot stall the endpoint.
func GetHealth(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:        "ok",
		Mongo:         "connected",
		Redis:         "connected",
		UptimeSeconds: time.Since(startTime).Seconds(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		status.Mongo = "disconnected"
	}

	if err := cache.Ping(ctx); err != nil {
		status.Redis = "disconnected"
		status.RedisMessage = err.Error()
	}

	return status
}
