package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresStore implements the durable Store on the documents table.
type postgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a durable document store backed by PostgreSQL.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) Store {
	return &postgresStore{
		pool:   pool,
		logger: logger.With().Str("repository", "documents").Logger(),
	}
}

// Get returns the document held by key.
func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT value
		FROM documents
		WHERE key = $1
	`

	var raw []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to query document")
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return raw, nil
}

// Put upserts the document held by key.
func (s *postgresStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO documents (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.pool.Exec(ctx, query, key, string(value)); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to upsert document")
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(value)).Msg("document stored")
	return nil
}

// Delete removes the document held by key.
func (s *postgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE key = $1`, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to delete document")
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
