package serverutils

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware applies a fixed-window per-user limit backed by
// redis. Agent turns spend provider tokens, so the chat routes are
// capped harder than ordinary CRUD would be. A nil client disables the
// limit (local development without redis).
func RateLimitMiddleware(rdb *redis.Client, limitPerMinute int) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if rdb == nil || limitPerMinute <= 0 {
			return ctx.Next()
		}

		identity, _ := ctx.Locals("user_id").(string)
		if identity == "" {
			identity = ctx.IP()
		}

		key := fmt.Sprintf("ratelimit:agent:%s:%d", identity, time.Now().Unix()/60)

		count, err := rdb.Incr(ctx.Context(), key).Result()
		if err != nil {
			// Redis being down should not take the API down with it
			return ctx.Next()
		}
		if count == 1 {
			rdb.Expire(ctx.Context(), key, time.Minute)
		}

		if count > int64(limitPerMinute) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(
				ErrorResponse("Rate limit exceeded, try again in a minute"))
		}

		return ctx.Next()
	}
}
