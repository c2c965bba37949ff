package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SerializesSameCart(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(storage.NewMemoryStore(), storage.NewCodec(zerolog.Nop()), nil, zerolog.Nop())

	require.NoError(t, registry.With(ctx, "shared", func(e *Engine) error {
		_, err := e.AddItem(ctx, product(1, "Wallet", "1.00"), 1)
		return err
	}))

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := registry.With(ctx, "shared", func(e *Engine) error {
				return e.UpdateQuantity(ctx, 1, e.ItemCount()+1)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	summary, err := registry.Summary(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, workers+1, summary.ItemCount, "no increment may be lost")
}

func TestRegistry_IsolatesCarts(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(storage.NewMemoryStore(), storage.NewCodec(zerolog.Nop()), nil, zerolog.Nop())

	require.NoError(t, registry.With(ctx, "a", func(e *Engine) error {
		_, err := e.AddItem(ctx, product(1, "Wallet", "45.00"), 2)
		return err
	}))

	a, err := registry.Summary(ctx, "a")
	require.NoError(t, err)
	b, err := registry.Summary(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, 2, a.ItemCount)
	assert.Equal(t, "b", b.CartID)
	assert.Empty(t, b.Items)
}

func TestRegistry_InvokesHook(t *testing.T) {
	ctx := context.Background()

	var summaries []model.CartSummary
	hook := func(ctx context.Context, s model.CartSummary) { summaries = append(summaries, s) }
	registry := NewRegistry(storage.NewMemoryStore(), storage.NewCodec(zerolog.Nop()), hook, zerolog.Nop())

	require.NoError(t, registry.With(ctx, "c", func(e *Engine) error {
		if _, err := e.AddItem(ctx, product(1, "Wallet", "45.00"), 1); err != nil {
			return err
		}
		return e.Clear(ctx)
	}))

	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].ItemCount)
	assert.Equal(t, 0, summaries[1].ItemCount)
}

func TestRegistry_BusyCartDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(storage.NewMemoryStore(), storage.NewCodec(zerolog.Nop()), nil, zerolog.Nop())

	entered := make(chan struct{})
	release := make(chan struct{})
	held := make(chan error, 1)
	go func() {
		held <- registry.With(ctx, "cart-a", func(e *Engine) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	// Enough distinct ids that any fixed set of shared locks would collide.
	done := make(chan error, 1)
	go func() {
		for i := 0; i < 256; i++ {
			if _, err := registry.Summary(ctx, fmt.Sprintf("cart-%d", i)); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("other carts waited on a busy cart")
	}

	close(release)
	require.NoError(t, <-held)
}

func TestRegistry_ReleasesLocks(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(storage.NewMemoryStore(), storage.NewCodec(zerolog.Nop()), nil, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := registry.Summary(ctx, fmt.Sprintf("cart-%d", i%5))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	registry.mu.Lock()
	defer registry.mu.Unlock()
	assert.Empty(t, registry.locks)
}
