package utils

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rdb is the shared Redis client, set by InitRedis
var Rdb *redis.Client

// InitRedis connects the shared Redis client using env configuration
func InitRedis() error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	Rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	log.Println("✅ Redis connected:", addr)
	return nil
}

// CacheJSON marshals value and stores it under key with the given TTL
func CacheJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if Rdb == nil {
		return errors.New("redis not initialized")
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Rdb.Set(ctx, key, payload, ttl).Err()
}

// GetCachedJSON loads key into dest; returns false when the key is absent
func GetCachedJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if Rdb == nil {
		return false, errors.New("redis not initialized")
	}
	payload, err := Rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(payload, dest)
}
