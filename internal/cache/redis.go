package cache

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/kodekamper/api/internal/config"
	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned by Ping when no cache store is configured.
var ErrNotConfigured = errors.New("redis not configured")

// pingTimeout bounds the health-check ping so a dead cache store cannot stall
// the health endpoint.
const pingTimeout = 1500 * time.Millisecond

var (
	client *redis.Client
	once   sync.Once
)

// Client lazily builds the process-wide cache client. Returns nil when caching
// is disabled (no REDIS_URL/REDIS_HOST configured) or the URL cannot be
// parsed; callers treat nil as "no cache" and pass through.
func Client() *redis.Client {
	once.Do(func() {
		rawURL := config.RedisURL()
		if rawURL == "" {
			return
		}

		opts, err := redis.ParseURL(rawURL)
		if err != nil {
			log.Printf("Redis disabled, bad URL: %v", err)
			return
		}

		client = redis.NewClient(opts)
	})
	return client
}

// Ping reports cache-store connectivity with a bounded timeout.
func Ping(ctx context.Context) error {
	rdb := Client()
	if rdb == nil {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return rdb.Ping(ctx).Err()
}

// Close releases the client. Safe to call when caching was never enabled.
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	once = sync.Once{}
	return err
}
