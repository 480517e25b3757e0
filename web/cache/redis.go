// Package cache connects to Redis and provides a Redis-backed gin session
// store.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/resalelab/carprice/logger"
)

// EmbeddedURL selects an in-process Redis instead of a server.
const EmbeddedURL = "embedded"

// Conn is an open Redis client plus the embedded server behind it, if any.
type Conn struct {
	Client   *redis.Client
	embedded *miniredis.Miniredis
}

// Connect opens redisURL (redis://, rediss:// or EmbeddedURL) and pings it.
func Connect(ctx context.Context, redisURL string) (*Conn, error) {
	if redisURL == EmbeddedURL {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded Redis: %w", err)
		}
		logger.Info("embedded Redis started on ", mr.Addr())
		return &Conn{
			Client:   redis.NewClient(&redis.Options{Addr: mr.Addr()}),
			embedded: mr,
		}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}
	logger.Info("connected to Redis at ", opts.Addr)
	return &Conn{Client: client}, nil
}

func (c *Conn) Close() error {
	if c == nil {
		return nil
	}
	err := c.Client.Close()
	if c.embedded != nil {
		c.embedded.Close()
	}
	return err
}
