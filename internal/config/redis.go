package config

// This file defines the Redis client constructor.  Redis backs the
// distributed rate limiter and the optional response cache.  If the server
// cannot be reached during startup the constructor returns nil and callers
// degrade gracefully by disabling both.

import (
	"context"
	"crypto/tls"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection settings for Redis.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	TLS           bool
	TLSSkipVerify bool
}

// LoadRedisConfig reads:
//
//	REDIS_HOST and REDIS_PORT – hostname and port of the Redis server
//	REDIS_ADDR – host:port shorthand, used when host/port are not both set
//	REDIS_PASSWORD – optional password
//	REDIS_DB – database number (default 0)
//	REDIS_TLS – enable TLS
//	REDIS_TLS_SKIP_VERIFY – skip certificate verification (self-signed dev servers)
func LoadRedisConfig() RedisConfig {
	host := os.Getenv("REDIS_HOST")
	port := os.Getenv("REDIS_PORT")
	addr := os.Getenv("REDIS_ADDR")
	if host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	return RedisConfig{
		Addr:          addr,
		Password:      os.Getenv("REDIS_PASSWORD"),
		DB:            envInt("REDIS_DB", 0),
		TLS:           envBool("REDIS_TLS", false),
		TLSSkipVerify: envBool("REDIS_TLS_SKIP_VERIFY", false),
	}
}

// NewRedisClient connects using rc and pings the server with a short
// timeout.  The returned client is nil if the ping fails.
func NewRedisClient(rc RedisConfig) *redis.Client {
	var tlsConf *tls.Config
	if rc.TLS {
		tlsConf = &tls.Config{InsecureSkipVerify: rc.TLSSkipVerify}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      rc.Addr,
		Password:  rc.Password,
		DB:        rc.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
