package database

import (
	"context"
	"log"

	"rentsplit-backend/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client, or nil when Redis is unreachable. The app
// runs without the cache in that case.
func ConnectRedis(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Println("⚠️  Redis not available, running without cache:", err)
		return nil
	}

	log.Println("✅ Redis connected successfully")
	return client
}
