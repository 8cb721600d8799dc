// Package mcp serves the vRA tools, prompts and resources over the Model
// Context Protocol.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/vra-mcp/internal/mcp/prompts"
	"github.com/usestring/vra-mcp/internal/mcp/tools"
)

// Version is reported to clients during initialization.
var Version = "dev"

// Server wraps the MCP server with the vRA tools, prompts and resources.
type Server struct {
	mcpServer *sdkmcp.Server
	deps      *tools.Deps

	builtinTools   bool
	builtinPrompts bool
	registrations  []func(*sdkmcp.Server)
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithBuiltinTools enables the vra_* tools and the vra:// resources.
func WithBuiltinTools() ServerOption {
	return func(s *Server) {
		s.builtinTools = true
	}
}

// WithBuiltinPrompts enables the builtin prompts.
func WithBuiltinPrompts() ServerOption {
	return func(s *Server) {
		s.builtinPrompts = true
	}
}

// WithCustomRegistration adds a callback that registers tools, prompts or
// resources on the underlying server after the builtins.
func WithCustomRegistration(fn func(*sdkmcp.Server)) ServerOption {
	return func(s *Server) {
		s.registrations = append(s.registrations, fn)
	}
}

// NewServer creates the MCP server. deps must carry a logged-in session and a
// config.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	if deps == nil || deps.Session == nil || deps.Config == nil {
		return nil, fmt.Errorf("deps with a session and a config is required")
	}

	s := &Server{deps: deps}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "vra-mcp", Version: Version},
		&sdkmcp.ServerOptions{Instructions: instructions(deps)},
	)
	s.mcpServer.AddReceivingMiddleware(LoggingMiddleware())

	if s.builtinTools {
		tools.Register(s.mcpServer, deps)
		s.registerResources()
	}
	if s.builtinPrompts {
		prompts.Register(s.mcpServer, &prompts.Config{
			Host:        deps.Session.Host(),
			Tenant:      deps.Session.Tenant(),
			WaitTimeout: deps.Config.RequestWaitTimeout,
		})
	}
	for _, fn := range s.registrations {
		fn(s.mcpServer)
	}

	return s, nil
}

func instructions(deps *tools.Deps) string {
	return fmt.Sprintf(
		"Connected to vRealize Automation %s, tenant %s, as %s. "+
			"Start from vra_catalog_items and vra_business_groups; vra_request_catalog_item submits requests "+
			"and vra_provisioned_items lists what exists. Get the vra_guide prompt for the full workflow.",
		deps.Session.Host(), deps.Session.Tenant(), deps.Session.Username(),
	)
}

// Run serves over stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server, for in-process transports.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcpServer
}
