// Package redisstore keeps savings records as JSON values in Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/store"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "wishjar:record:"

var _ store.Store = (*Store)(nil)

// Store is a Redis-backed record store.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// Open parses a redis:// URL and pings the server.
func Open(ctx context.Context, url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return New(client), nil
}

// New wraps an existing client. Records never expire.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// WithTTL makes every upsert set the given expiry.
func (s *Store) WithTTL(ttl time.Duration) *Store {
	s.ttl = ttl
	return s
}

// Fetch implements store.Store.
func (s *Store) Fetch(ctx context.Context, userKey string) (*model.SavingsRecord, error) {
	data, err := s.client.Get(ctx, keyPrefix+userKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec model.SavingsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	rec.UserKey = userKey
	if rec.Wishes == nil {
		rec.Wishes = []model.Wish{}
	}
	return &rec, nil
}

// Upsert implements store.Store.
func (s *Store) Upsert(ctx context.Context, rec model.SavingsRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+rec.UserKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return s.client.Close()
}
