package database

import (
	"context"
	"time"

	"movie-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis for rate limiting. A nil client is returned
// when the server is unreachable; callers degrade by disabling the limiter.
func InitRedis(config utils.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil
	}

	return client
}
