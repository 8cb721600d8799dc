// Package cache provides caching utilities for the CLI and the MCP server.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/usestring/vra-mcp/pkg/client"
)

// FetchFunc loads a request template from vRA.
type FetchFunc func(ctx context.Context, catalogItemID string) (*client.RequestTemplate, error)

// TemplateCache provides thread-safe LRU caching of request templates keyed by
// catalog item id. Templates are stored encoded so every Get hands out an
// independent copy the caller may modify.
type TemplateCache struct {
	cache *lru.Cache[string, []byte]
	group singleflight.Group
}

// NewTemplateCache creates a new LRU cache with the specified maximum number of items.
func NewTemplateCache(maxItems int) (*TemplateCache, error) {
	c, err := lru.New[string, []byte](maxItems)
	if err != nil {
		return nil, err
	}
	return &TemplateCache{cache: c}, nil
}

// Get retrieves a copy of the template of a catalog item.
// Returns the template and true if found, nil and false otherwise.
func (c *TemplateCache) Get(catalogItemID string) (*client.RequestTemplate, bool) {
	data, ok := c.cache.Get(catalogItemID)
	if !ok {
		return nil, false
	}
	var tmpl client.RequestTemplate
	if err := json.Unmarshal(data, &tmpl); err != nil {
		c.cache.Remove(catalogItemID)
		return nil, false
	}
	return &tmpl, true
}

// Put adds or updates the template of a catalog item.
func (c *TemplateCache) Put(catalogItemID string, tmpl *client.RequestTemplate) error {
	data, err := json.Marshal(tmpl)
	if err != nil {
		return fmt.Errorf("encoding template for cache: %w", err)
	}
	c.cache.Add(catalogItemID, data)
	return nil
}

// GetOrFetch returns the cached template or loads it with fetch. Concurrent
// misses for the same catalog item share one fetch.
func (c *TemplateCache) GetOrFetch(ctx context.Context, catalogItemID string, fetch FetchFunc) (*client.RequestTemplate, error) {
	if tmpl, ok := c.Get(catalogItemID); ok {
		return tmpl, nil
	}

	_, err, _ := c.group.Do(catalogItemID, func() (any, error) {
		tmpl, err := fetch(ctx, catalogItemID)
		if err != nil {
			return nil, err
		}
		return nil, c.Put(catalogItemID, tmpl)
	})
	if err != nil {
		return nil, err
	}

	tmpl, ok := c.Get(catalogItemID)
	if !ok {
		return nil, fmt.Errorf("template for %q evicted before use", catalogItemID)
	}
	return tmpl, nil
}

// Invalidate drops the template of a catalog item.
func (c *TemplateCache) Invalidate(catalogItemID string) {
	c.cache.Remove(catalogItemID)
}

// Len returns the current number of items in the cache.
func (c *TemplateCache) Len() int {
	return c.cache.Len()
}
