package mcpsrv

import (
	"context"
	"fmt"
	"os"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/vra-mcp/internal/cache"
	"github.com/usestring/vra-mcp/internal/config"
	"github.com/usestring/vra-mcp/internal/indexer"
	"github.com/usestring/vra-mcp/internal/logging"
	"github.com/usestring/vra-mcp/internal/mcp"
	"github.com/usestring/vra-mcp/internal/query"
	"github.com/usestring/vra-mcp/pkg/client"
)

// Server is the vRA MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with builtin vRA tools.
//
// The session parameter is required: it is the logged-in vRA session every
// tool call goes through. Use functional options to configure logging, add
// custom tools, etc.
func NewServer(s *client.Session, opts ...Option) (*Server, error) {
	if s == nil {
		return nil, fmt.Errorf("session is required")
	}

	// Build configuration from options
	cfg := &serverConfig{
		config: config.Load(), // Load defaults from environment
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Setup logging; stdout carries the protocol
	logCfg := logging.FromConfig(cfg.config)
	logCfg.Fallback = os.Stderr
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	// Create infrastructure
	templates, err := cache.NewTemplateCache(cfg.config.TemplateCacheMaxItems)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create template cache: %w", err)
	}

	deps := &Deps{
		Session:   s,
		Config:    cfg.config,
		Templates: templates,
		Query:     query.NewEngine(),
		Resources: indexer.New(s, cfg.config),
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}
	for _, fn := range cfg.registrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.depsTools {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(deps.tools(), internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport and the periodic refresh of
// the resource index.
// The server runs until the context is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.deps.Resources.StartBackgroundRefresh(ctx)
	return s.internal.Run(ctx)
}

// MCPServer returns the underlying MCP server, for in-process transports.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}
