package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/restaurant-directory/internal/config"
	"github.com/princeprakhar/restaurant-directory/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitMiddleware limits requests per client IP and path. Counters live
// in Redis when REDIS_URL is set so every instance shares them.
func RateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	limit := cfg.RateLimitRPS
	if cfg.RateLimitBurst > limit {
		limit = cfg.RateLimitBurst
	}
	rate := limiter.Rate{
		Period: time.Second,
		Limit:  int64(limit),
	}

	instance := limiter.New(newLimiterStore(cfg), rate, limiter.WithTrustForwardHeader(true))

	return mgin.NewMiddleware(instance, mgin.WithKeyGetter(func(c *gin.Context) string {
		return fmt.Sprintf("%s:%s", c.ClientIP(), c.FullPath())
	}))
}

func newLimiterStore(cfg *config.Config) limiter.Store {
	if cfg.RedisURL == "" {
		return memory.NewStore()
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, using in-memory rate limiting: ", err)
		return memory.NewStore()
	}

	store, err := sredis.NewStoreWithOptions(redis.NewClient(opts), limiter.StoreOptions{
		Prefix: "restaurant_directory_limiter",
	})
	if err != nil {
		logger.Warn("redis rate limit store unavailable, using in-memory rate limiting: ", err)
		return memory.NewStore()
	}
	return store
}
