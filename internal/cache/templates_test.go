package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/vra-mcp/pkg/client"
)

func makeTemplate(id string) *client.RequestTemplate {
	return &client.RequestTemplate{
		Type:          "com.vmware.vcac.catalog.domain.request.CatalogItemProvisioningRequest",
		CatalogItemID: id,
		Data:          map[string]any{"_leaseDays": float64(7)},
		Extra:         map[string]any{"approvalRequired": false},
	}
}

func TestTemplateCache_PutGet(t *testing.T) {
	c, err := NewTemplateCache(8)
	require.NoError(t, err)

	require.NoError(t, c.Put("ci-1", makeTemplate("ci-1")))
	got, ok := c.Get("ci-1")
	require.True(t, ok)
	assert.Equal(t, "ci-1", got.CatalogItemID)
	assert.Equal(t, false, got.Extra["approvalRequired"])
	assert.Equal(t, 1, c.Len())

	_, ok = c.Get("ci-2")
	assert.False(t, ok)
}

func TestTemplateCache_GetReturnsCopy(t *testing.T) {
	c, err := NewTemplateCache(8)
	require.NoError(t, err)
	require.NoError(t, c.Put("ci-1", makeTemplate("ci-1")))

	first, _ := c.Get("ci-1")
	first.SetReasons("changed")
	first.Data["_leaseDays"] = float64(30)

	second, _ := c.Get("ci-1")
	assert.Nil(t, second.Reasons)
	assert.Equal(t, float64(7), second.Data["_leaseDays"])
}

func TestTemplateCache_Eviction(t *testing.T) {
	c, err := NewTemplateCache(2)
	require.NoError(t, err)

	require.NoError(t, c.Put("a", makeTemplate("a")))
	require.NoError(t, c.Put("b", makeTemplate("b")))
	require.NoError(t, c.Put("c", makeTemplate("c")))

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Invalidate("b")
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestTemplateCache_GetOrFetch_SharesConcurrentMisses(t *testing.T) {
	c, err := NewTemplateCache(8)
	require.NoError(t, err)

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context, id string) (*client.RequestTemplate, error) {
		calls.Add(1)
		<-release
		return makeTemplate(id), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tmpl, err := c.GetOrFetch(context.Background(), "ci-1", fetch)
			assert.NoError(t, err)
			assert.Equal(t, "ci-1", tmpl.CatalogItemID)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())

	// Served from cache afterwards.
	_, err = c.GetOrFetch(context.Background(), "ci-1", fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTemplateCache_GetOrFetch_Error(t *testing.T) {
	c, err := NewTemplateCache(8)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = c.GetOrFetch(context.Background(), "ci-1", func(context.Context, string) (*client.RequestTemplate, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}
