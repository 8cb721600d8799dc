package mcpsrv

import (
	"github.com/usestring/vra-mcp/internal/cache"
	"github.com/usestring/vra-mcp/internal/config"
	"github.com/usestring/vra-mcp/internal/indexer"
	"github.com/usestring/vra-mcp/internal/mcp/tools"
	"github.com/usestring/vra-mcp/internal/query"
	"github.com/usestring/vra-mcp/pkg/client"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Session   *client.Session
	Config    *config.Config
	Templates *cache.TemplateCache
	Query     *query.Engine
	Resources *indexer.Indexer
}

func (d *Deps) tools() *tools.Deps {
	return &tools.Deps{
		Session:   d.Session,
		Config:    d.Config,
		Templates: d.Templates,
		Query:     d.Query,
		Resources: d.Resources,
	}
}
