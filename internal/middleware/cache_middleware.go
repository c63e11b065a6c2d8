package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kodekamper/api/internal/cache"
)

// CacheKey derives the cache key for a request from its path and query.
func CacheKey(originalURL string) string {
	return "cache:" + originalURL
}

// CacheResponse memoizes GET/HEAD responses in the cache store for ttl.
// A cache hit returns the stored JSON verbatim; on a miss the outgoing body
// is stored only when the handler produced a 2xx. Cache-store absence or
// failure degrades silently to pass-through.
func CacheResponse(ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
			return c.Next()
		}

		rdb := cache.Client()
		if rdb == nil {
			return c.Next()
		}

		key := CacheKey(c.OriginalURL())

		if cached, err := rdb.Get(c.Context(), key).Bytes(); err == nil {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(fiber.StatusOK).Send(cached)
		}

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status >= 200 && status < 300 {
			// The response buffer is reused by fasthttp, copy before storing.
			body := make([]byte, len(c.Response().Body()))
			copy(body, c.Response().Body())
			rdb.Set(c.Context(), key, body, ttl)
		}

		return nil
	}
}
