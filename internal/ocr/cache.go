package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "ocr:"

// Store is the key/value surface the cache needs.
type Store interface {
	// Get reports found=false with a nil error on a miss.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedRecognizer memoizes recognized text by image content.
type CachedRecognizer struct {
	next   Recognizer
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewCached(next Recognizer, store Store, ttl time.Duration, logger *slog.Logger) *CachedRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRecognizer{next: next, store: store, ttl: ttl, logger: logger}
}

// CacheKey returns the cache key for an image.
func CacheKey(image []byte) string {
	sum := sha256.Sum256(image)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// Recognize serves from the cache when possible. Cache faults are logged and
// skipped; recognition errors are returned and never stored.
func (c *CachedRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	key := CacheKey(image)

	text, found, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.WarnContext(ctx, "ocr cache read failed", "error", err)
	case found:
		c.logger.DebugContext(ctx, "ocr cache hit", "text_len", len(text))
		return text, nil
	}

	text, err = c.next.Recognize(ctx, image)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key, text, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "ocr cache write failed", "error", err)
	}
	return text, nil
}

// RedisStore adapts a go-redis client to Store.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// NewRedisClient connects to url and pings it. It returns a nil client when
// url is empty.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
