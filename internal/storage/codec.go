package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Codec reads and writes typed documents through a Store. Reads are
// parsed and validated; anything malformed is reported as absent so that
// callers fall back to an empty default instead of trusting bad data.
type Codec struct {
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewCodec creates a codec that validates documents with `validate` struct tags.
func NewCodec(logger zerolog.Logger) *Codec {
	return &Codec{
		validate: validator.New(),
		logger:   logger.With().Str("component", "storage-codec").Logger(),
	}
}

// Load decodes the document held by key into dst.
// It returns false when the key is absent or the document fails to parse
// or validate; dst is then left zeroed. The error is non-nil only when
// the store itself failed.
func (c *Codec) Load(ctx context.Context, store Store, key string, dst any) (bool, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		c.logger.Error().Err(err).Str("key", key).Msg("failed to read document")
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("malformed document, using empty default")
		reset(dst)
		return false, nil
	}

	if err := c.check(dst); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("invalid document, using empty default")
		reset(dst)
		return false, nil
	}

	return true, nil
}

// Save encodes v and writes it under key.
func (c *Codec) Save(ctx context.Context, store Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := store.Put(ctx, key, raw); err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("failed to write document")
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

// Validate runs struct validation on v, or on every struct element when
// v is a slice.
func (c *Codec) Validate(v any) error {
	return c.check(v)
}

func (c *Codec) check(dst any) error {
	v := reflect.Indirect(reflect.ValueOf(dst))
	switch v.Kind() {
	case reflect.Struct:
		return c.validate.Struct(v.Interface())
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			elem := reflect.Indirect(v.Index(i))
			if elem.Kind() != reflect.Struct {
				continue
			}
			if err := c.validate.Struct(elem.Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return nil
}

// reset zeroes the value dst points to.
func reset(dst any) {
	v := reflect.ValueOf(dst)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
	}
}
