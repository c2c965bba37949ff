package cart

import (
	"context"
	"sync"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// Registry hands out engines for carts kept in one store and serializes
// operations on the same cart within this process. Writers in other
// processes still race; the last write wins.
type Registry struct {
	store  storage.Store
	codec  *storage.Codec
	hook   ChangeHook
	logger zerolog.Logger

	mu    sync.Mutex
	locks map[string]*cartLock
}

// cartLock is held while a cart is in use. refs counts holders and waiters
// so the entry can be dropped once nobody needs it.
type cartLock struct {
	mu   sync.Mutex
	refs int
}

// NewRegistry creates a registry over store. hook may be nil.
func NewRegistry(store storage.Store, codec *storage.Codec, hook ChangeHook, logger zerolog.Logger) *Registry {
	return &Registry{
		store:  store,
		codec:  codec,
		hook:   hook,
		logger: logger,
		locks:  make(map[string]*cartLock),
	}
}

// With loads the cart, runs fn on it and releases it. Concurrent calls for
// the same cart id run one at a time.
func (r *Registry) With(ctx context.Context, cartID string, fn func(*Engine) error) error {
	lock := r.acquire(cartID)
	defer r.release(cartID, lock)

	engine, err := Open(ctx, cartID, r.store, r.codec, r.logger)
	if err != nil {
		return err
	}
	engine.OnChange(r.hook)

	return fn(engine)
}

// Summary returns the current contents of a cart.
func (r *Registry) Summary(ctx context.Context, cartID string) (model.CartSummary, error) {
	var summary model.CartSummary
	err := r.With(ctx, cartID, func(e *Engine) error {
		summary = e.Summary()
		return nil
	})
	return summary, err
}

func (r *Registry) acquire(cartID string) *cartLock {
	r.mu.Lock()
	lock, ok := r.locks[cartID]
	if !ok {
		lock = &cartLock{}
		r.locks[cartID] = lock
	}
	lock.refs++
	r.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (r *Registry) release(cartID string, lock *cartLock) {
	lock.mu.Unlock()

	r.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(r.locks, cartID)
	}
	r.mu.Unlock()
}
