package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "feeder-workbench/pkg/errors"
)

type catalogQuery struct {
	Layer int
}

func (q catalogQuery) Validate() error { return nil }

type mapCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func (c *mapCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func TestQueryBus_CachingMiddleware(t *testing.T) {
	calls := 0
	handler := HandlerFor(func(_ context.Context, q catalogQuery) (interface{}, error) {
		calls++
		return q.Layer * 10, nil
	})
	cache := NewCachingMiddleware(&mapCache{items: map[string]interface{}{}}, time.Minute)

	b := NewQueryBus()
	require.NoError(t, b.Register(catalogQuery{}, cache.Wrap(handler)))

	for i := 0; i < 3; i++ {
		out, err := b.Ask(context.Background(), catalogQuery{Layer: 7})
		require.NoError(t, err)
		assert.Equal(t, 70, out)
	}
	out, err := b.Ask(context.Background(), catalogQuery{Layer: 2})
	require.NoError(t, err)
	assert.Equal(t, 20, out)
	assert.Equal(t, 2, calls)
}

func TestQueryBus_ErrorsAreNotCached(t *testing.T) {
	calls := 0
	handler := HandlerFor(func(_ context.Context, _ catalogQuery) (interface{}, error) {
		calls++
		return nil, pkgerrors.NewNetworkFailure("simulation", nil)
	})
	cache := NewCachingMiddleware(&mapCache{items: map[string]interface{}{}}, time.Minute)

	b := NewQueryBus()
	require.NoError(t, b.Register(catalogQuery{}, cache.Wrap(handler)))

	_, err := b.Ask(context.Background(), catalogQuery{})
	assert.True(t, pkgerrors.IsNetworkFailure(err))
	_, _ = b.Ask(context.Background(), catalogQuery{})
	assert.Equal(t, 2, calls)
}

func TestQueryBus_Unregistered(t *testing.T) {
	_, err := NewQueryBus().Ask(context.Background(), catalogQuery{})
	require.Error(t, err)
	assert.Equal(t, "HANDLER_NOT_FOUND", pkgerrors.GetAppError(err).Code)
}
