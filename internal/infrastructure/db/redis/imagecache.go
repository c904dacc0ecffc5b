package redis

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultImageTTL = 24 * time.Hour

// ImageCache stores encoded QR PNGs keyed by a digest of (text, size).
// Encoding is deterministic, so a cached payload is always byte-identical to
// a fresh encode of the same input.
// Key format: qr:img:<sha256 hex>
type ImageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewImageCache creates an ImageCache wrapping the given Redis client.
// A non-positive ttl falls back to 24h.
func NewImageCache(client *redis.Client, ttl time.Duration) *ImageCache {
	if ttl <= 0 {
		ttl = defaultImageTTL
	}
	return &ImageCache{client: client, ttl: ttl}
}

// Fetch returns the cached payload and whether it was present.
func (c *ImageCache) Fetch(ctx context.Context, text string, size int) ([]byte, bool, error) {
	png, err := c.client.Get(ctx, c.key(text, size)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("image cache get: %w", err)
	}
	return png, true, nil
}

// Store caches the payload, expiring after the configured TTL.
func (c *ImageCache) Store(ctx context.Context, text string, size int, png []byte) error {
	return c.client.Set(ctx, c.key(text, size), png, c.ttl).Err()
}

func (c *ImageCache) key(text string, size int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", size, text)))
	return fmt.Sprintf("qr:img:%x", sum)
}
