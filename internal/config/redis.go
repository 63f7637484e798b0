package config

// Redis backs three optional features: distributed rate limiting, the
// cross-instance room lock and the asynq queue that runs the stale sweep.
// When Redis is unreachable at startup NewRedisClient returns nil and the
// server falls back to in-process locks without rate limiting or sweeping.

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions reads the connection settings:
//
//	REDIS_HOST, REDIS_PORT  server address; wins over REDIS_ADDR
//	REDIS_ADDR              host:port shorthand, default localhost:6379
//	REDIS_PASSWORD          optional
//	REDIS_DB                database number, default 0
//	REDIS_TLS               connect over TLS
func RedisOptions() *redis.Options {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", "")
	if host != "" && port != "" {
		addr = net.JoinHostPort(host, port)
	}

	opts := &redis.Options{
		Addr:     addr,
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
	}
	if envBool("REDIS_TLS", false) {
		serverName, _, _ := net.SplitHostPort(addr)
		opts.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	}
	return opts
}

// NewRedisClient connects with RedisOptions and pings the server.  It returns
// nil when the ping fails within two seconds.
func NewRedisClient() *redis.Client {
	client := redis.NewClient(RedisOptions())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
