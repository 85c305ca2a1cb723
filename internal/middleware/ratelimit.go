package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/internal/metrics"
)

// RateLimit implements a fixed-window limiter per client IP and path using
// Redis INCR/EXPIRE. Key format: rl:<window_seconds>:<path>:<ip>.
// A nil client or a Redis error lets the request through.
func RateLimit(client *redis.Client, maxRequests int, window time.Duration, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		if client == nil || maxRequests <= 0 || window <= 0 {
			return next
		}
		return func(ctx *fasthttp.RequestCtx) {
			path := string(ctx.Path())
			key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + path + ":" + ctx.RemoteIP().String()

			rctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			val, err := client.Incr(rctx, key).Result()
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.Error(err))
				ctx.Response.Header.Set("X-RateLimit-Error", "redis-error")
				next(ctx)
				return
			}
			if val == 1 {
				client.Expire(rctx, key, window)
			}

			if val > int64(maxRequests) {
				metrics.RLBlocked.WithLabelValues(path).Inc()
				ctx.Response.Header.Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				writeError(ctx, http.StatusTooManyRequests, domain.ErrCodeRateLimited, "rate limit exceeded")
				return
			}

			metrics.RLRequests.WithLabelValues(path).Inc()
			next(ctx)
		}
	}
}
