package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key holds no document.
var ErrNotFound = errors.New("storage: key not found")

// Store is a key-value store of JSON documents.
//
// Two scopes are used by the application: a durable store that survives
// restarts and a session store whose entries expire with the session.
// Neither offers read-modify-write atomicity; concurrent writers of the
// same key overwrite each other.
type Store interface {
	// Get returns the raw document held by key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the document held by key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
