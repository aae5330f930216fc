package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps go-redis for the application.
type Client struct {
	rdb *redis.Client
}

// Connect creates a Redis client and verifies connectivity.
func Connect(url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// Raw returns the underlying redis.Client for advanced usage.
func (c *Client) Raw() *redis.Client { return c.rdb }

// Close releases the connection pool.
func (c *Client) Close() error { return c.rdb.Close() }

// SetBits sets the given bit offsets of a bitmap key in one pipelined
// round-trip and refreshes the key's expiry.
func (c *Client) SetBits(ctx context.Context, key string, offsets []uint64, expiry time.Duration) error {
	pipe := c.rdb.TxPipeline()
	for _, off := range offsets {
		pipe.SetBit(ctx, key, int64(off), 1)
	}
	if expiry > 0 {
		pipe.Expire(ctx, key, expiry)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// GetBits reads the given bit offsets of a bitmap key in one pipelined
// round-trip. Missing keys read as all-zero, matching redis semantics.
func (c *Client) GetBits(ctx context.Context, key string, offsets []uint64) ([]bool, error) {
	pipe := c.rdb.Pipeline()
	cmds := make([]*redis.IntCmd, len(offsets))
	for i, off := range offsets {
		cmds[i] = pipe.GetBit(ctx, key, int64(off))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	out := make([]bool, len(offsets))
	for i, cmd := range cmds {
		out[i] = cmd.Val() == 1
	}
	return out, nil
}
