package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/lysyi3m/feed-cache/app/database"
	"github.com/redis/go-redis/v9"
)

var _ database.ImageDataStore = (*RedisImageDataStore)(nil)

// RedisImageDataStore keeps image bytes in Redis. It replaces the SQLite image
// table when a Redis address is configured; the feed snapshot stays in SQLite.
type RedisImageDataStore struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

// NewRedisImageDataStore connects to addr. A zero ttl stores images without
// expiry.
func NewRedisImageDataStore(addr string, ttl time.Duration) (*RedisImageDataStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr)

	return &RedisImageDataStore{
		client: client,
		ctx:    ctx,
		ttl:    ttl,
	}, nil
}

// GenerateImageKey derives a fixed-length key from an image URL.
func GenerateImageKey(u *url.URL) string {
	hash := sha256.Sum256([]byte(u.String()))
	return fmt.Sprintf("image:%x", hash)
}

func (s *RedisImageDataStore) InsertImageData(data []byte, u *url.URL, completion func(error)) {
	go func() {
		if err := s.client.Set(s.ctx, GenerateImageKey(u), data, s.ttl).Err(); err != nil {
			completion(&database.StoreError{Op: "insert_image_data", Err: err})
			return
		}
		completion(nil)
	}()
}

// RetrieveImageData reports a missing or expired key as nil data.
func (s *RedisImageDataStore) RetrieveImageData(u *url.URL, completion func([]byte, error)) {
	go func() {
		data, err := s.client.Get(s.ctx, GenerateImageKey(u)).Bytes()
		if errors.Is(err, redis.Nil) {
			completion(nil, nil)
			return
		}
		if err != nil {
			completion(nil, &database.StoreError{Op: "retrieve_image_data", Err: err})
			return
		}
		if data == nil {
			data = []byte{}
		}
		completion(data, nil)
	}()
}

func (s *RedisImageDataStore) Close() error {
	return s.client.Close()
}
