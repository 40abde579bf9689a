package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes the Redis connection. Redis is optional: when it is
// unreachable the client stays nil and every helper degrades to a
// no-op, so login simply goes upstream every time.
func Init() error {
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// hashCredentials creates a hash of username+password for the cache key
func hashCredentials(username, password string) string {
	h := sha256.New()
	h.Write([]byte(username + ":" + password))
	return "login:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedLogin returns the upstream bearer token previously obtained
// for these credentials, if still cached.
func GetCachedLogin(ctx context.Context, username, password string) (string, bool) {
	if client == nil {
		return "", false
	}
	token, err := client.Get(ctx, hashCredentials(username, password)).Result()
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// CacheLogin caches an upstream bearer token for 15 minutes, so reloads
// and extra tabs do not hammer the upstream login endpoint.
func CacheLogin(ctx context.Context, username, password, token string) {
	if client == nil {
		return
	}
	client.Set(ctx, hashCredentials(username, password), token, 15*time.Minute)
}

// InvalidateLogin removes a cached login (on upstream 401).
func InvalidateLogin(ctx context.Context, username, password string) {
	if client == nil {
		return
	}
	client.Del(ctx, hashCredentials(username, password))
}

// IsHealthy returns true if the Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
