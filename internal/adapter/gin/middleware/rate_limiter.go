package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstCapacity     int
	Enabled           bool
}

// RateLimiter throttles requests per method, path and client IP using a
// token bucket kept in Redis.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
	}
}

// Token Bucket algorithm implemented in Lua for atomicity.
// Data structure: {last_refill_time, current_tokens}
const tokenBucketScript = `
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])         -- tokens per second
	local capacity = tonumber(ARGV[2])     -- max tokens in bucket
	local now = tonumber(ARGV[3])          -- current timestamp
	local requested = tonumber(ARGV[4])    -- tokens requested (always 1)

	-- Get current bucket state
	local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
	local last_refill = tonumber(bucket[1]) or now
	local tokens = tonumber(bucket[2]) or capacity

	-- Calculate tokens to add based on elapsed time
	local elapsed = math.max(0, now - last_refill)
	local tokens_to_add = elapsed * rate
	tokens = math.min(capacity, tokens + tokens_to_add)

	-- Try to consume requested tokens
	if tokens >= requested then
		tokens = tokens - requested
		redis.call('HMSET', key, 'last_refill', now, 'tokens', tokens)
		redis.call('EXPIRE', key, 60)
		return 1
	else
		redis.call('HMSET', key, 'last_refill', now, 'tokens', tokens)
		redis.call('EXPIRE', key, 60)
		return 0
	end
`

// Handler returns the Gin middleware enforcing the limit. Any Redis
// failure lets the request through (fail open): throttling is protective,
// never a hard dependency of the API.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.config.Enabled || rl.client == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		clientIP := c.ClientIP()
		key := fmt.Sprintf("ratelimit:tb:%s:%s:%s", c.Request.Method, c.Request.URL.Path, clientIP)

		// Use the Redis server clock so all instances share one time source
		now, err := rl.client.Time(ctx).Result()
		if err != nil {
			rl.log.Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		allowed, err := rl.client.Eval(ctx, tokenBucketScript, []string{key},
			rl.config.RequestsPerSecond,
			rl.config.BurstCapacity,
			now.Unix(),
			1, // Always request 1 token
		).Int64()
		if err != nil {
			rl.log.Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if allowed == 0 {
			rl.log.Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("key", key),
				zap.Float64("limit", rl.config.RequestsPerSecond),
			)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": fmt.Sprintf("rate limit exceeded: %.2f requests/second (burst capacity: %d)", rl.config.RequestsPerSecond, rl.config.BurstCapacity),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
