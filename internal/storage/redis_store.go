package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// redisStore implements the session-scoped Store. Every write refreshes
// the TTL; a key untouched for longer than the TTL is gone, which is how
// a session ends when the client never logs out.
type redisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore creates a session store on client. Keys are namespaced
// under prefix and expire after ttl.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, logger zerolog.Logger) Store {
	return &redisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With().Str("component", "redis-store").Logger(),
	}
}

// NewRedisClient parses url, connects and verifies the connection.
func NewRedisClient(ctx context.Context, url string, logger zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("redis connection established")

	return client, nil
}

func (s *redisStore) key(k string) string {
	return s.prefix + k
}

// Get returns the document held by key.
func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to get session document")
		return nil, fmt.Errorf("failed to get session document: %w", err)
	}
	return raw, nil
}

// Put writes the document and restarts its TTL.
func (s *redisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to set session document")
		return fmt.Errorf("failed to set session document: %w", err)
	}
	return nil
}

// Delete removes the document held by key.
func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to delete session document")
		return fmt.Errorf("failed to delete session document: %w", err)
	}
	return nil
}
