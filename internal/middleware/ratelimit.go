package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/uppa/uppa_core/internal/session"
)

// defaultPerSecond is the request budget for one session per second
const defaultPerSecond = 10

// RateLimitMiddleware implements per-session rate limiting backed by
// Redis counters. Requests without a session fall back to the client IP
// so that login itself stays bounded.
func RateLimitMiddleware(rdb *redis.Client, perSecond int) fiber.Handler {
	if perSecond <= 0 {
		perSecond = defaultPerSecond
	}

	return func(c *fiber.Ctx) error {
		subject := c.IP()
		if sess, ok := c.Locals("session").(*session.Session); ok && sess != nil {
			subject = sess.Token
		}

		ctx := context.Background()
		now := time.Now()
		key := fmt.Sprintf("rl:session:%s:second:%d", subject, now.Unix())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// A Redis outage must not take the API down with it
			return c.Next()
		}
		rdb.Expire(ctx, key, 2*time.Second)

		c.Set("X-RateLimit-Limit-Second", strconv.Itoa(perSecond))
		if count > int64(perSecond) {
			c.Set("X-RateLimit-Remaining-Second", "0")
			c.Set("X-RateLimit-Reset-Second", strconv.FormatInt(now.Unix()+1, 10))
			c.Set("Retry-After", "1")

			return c.Status(429).JSON(fiber.Map{
				"error":       "rate_limit_exceeded",
				"message":     "Too many requests per second",
				"limit":       perSecond,
				"retry_after": 1,
			})
		}
		c.Set("X-RateLimit-Remaining-Second", strconv.FormatInt(int64(perSecond)-count, 10))

		return c.Next()
	}
}
