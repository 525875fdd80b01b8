package dal

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"pg-bridge-api/internal/config"
)

// RedisClient backs the Mall token store, the settings cache and notify host health.
var RedisClient *redis.Client

func InitRedis() {
	c := config.C.Redis
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("[REDIS] ping %s failed: %v", c.Addr, err)
	}
	log.Printf("[REDIS] connected addr=%s db=%d", c.Addr, c.DB)
}
