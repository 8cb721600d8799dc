package tools

import (
	"context"

	"github.com/usestring/vra-mcp/internal/cache"
	"github.com/usestring/vra-mcp/internal/config"
	"github.com/usestring/vra-mcp/internal/indexer"
	"github.com/usestring/vra-mcp/internal/query"
	"github.com/usestring/vra-mcp/pkg/client"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Session   *client.Session
	Config    *config.Config
	Templates *cache.TemplateCache
	Query     *query.Engine
	Resources *indexer.Indexer
}

// RequestTemplate returns a private copy of the request template of a catalog
// item, loading it through the template cache.
func (d *Deps) RequestTemplate(ctx context.Context, catalogItemID string) (*client.RequestTemplate, error) {
	return d.Templates.GetOrFetch(ctx, catalogItemID, d.Session.RequestTemplate)
}

// resourcesChanged marks the resource index stale after a submission that
// provisions or changes resources.
func (d *Deps) resourcesChanged() {
	if d.Resources != nil {
		d.Resources.Invalidate()
	}
}
