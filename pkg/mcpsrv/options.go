package mcpsrv

import (
	"context"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/vra-mcp/internal/config"
)

// serverConfig holds configuration built from options.
type serverConfig struct {
	config *config.Config

	logLevel string
	logFile  string

	disableBuiltinTools   bool
	disableBuiltinPrompts bool

	// Registrations run in option order after the builtins. depsTools run
	// last since they need the Deps built by NewServer.
	registrations []func(*mcp.Server)
	depsTools     []func(*mcp.Server, *Deps)
}

// Option configures the server.
type Option func(*serverConfig)

// WithConfig replaces the configuration read from the environment, typically
// with one loaded from a profile file. WithLogLevel and WithLogFile still
// apply on top of it.
func WithConfig(c *config.Config) Option {
	return func(cfg *serverConfig) {
		if c != nil {
			cfg.config = c
		}
	}
}

// WithLogLevel sets the log level (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(cfg *serverConfig) {
		cfg.logLevel = level
	}
}

// WithLogFile sets the log file path. Logs always go to stderr when the file
// cannot be opened; stdout carries the protocol.
func WithLogFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.logFile = path
	}
}

// WithoutBuiltinTools disables the builtin vra_* tools and the vra://
// resources.
func WithoutBuiltinTools() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinTools = true
	}
}

// WithoutBuiltinPrompts disables the builtin prompts.
func WithoutBuiltinPrompts() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinPrompts = true
	}
}

// WithTool registers a tool that does not need the vRA session. The output
// type is checked like the builtin ones (see AddTool).
//
//	type statusInput struct{}
//	type statusOutput struct {
//	    Version string `json:"version"`
//	}
//
//	mcpsrv.WithTool(&mcp.Tool{Name: "plugin_version", Description: "Version of the plugin"},
//	    func(ctx context.Context, req *mcp.CallToolRequest, _ statusInput) (*mcp.CallToolResult, statusOutput, error) {
//	        return nil, statusOutput{Version: "1.2.0"}, nil
//	    })
func WithTool[In, Out any](tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.registrations = append(cfg.registrations, func(srv *mcp.Server) {
			AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool registers a tool built from the server Deps, for tools that
// call vRA or read the resource index. builder runs once, at NewServer.
//
//	mcpsrv.WithDepsTool(&mcp.Tool{Name: "count_machines", Description: "Count powered-on machines"},
//	    func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, countInput) (*mcp.CallToolResult, countOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, _ countInput) (*mcp.CallToolResult, countOutput, error) {
//	            if err := d.Resources.RefreshIfStale(ctx); err != nil {
//	                return nil, countOutput{}, err
//	            }
//	            on := d.Resources.Search(indexer.Filter{Type: client.ResourceTypeVirtual, Status: "ON"})
//	            return nil, countOutput{Count: len(on)}, nil
//	        }
//	    })
//
// See examples/machine-inventory for a complete program.
func WithDepsTool[In, Out any](tool *mcp.Tool, builder func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.depsTools = append(cfg.depsTools, func(srv *mcp.Server, deps *Deps) {
			AddTool(srv, tool, builder(deps))
		})
	}
}

// WithPrompt registers a prompt, e.g. a site-specific provisioning runbook.
func WithPrompt(prompt *mcp.Prompt, handler func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error)) Option {
	return func(cfg *serverConfig) {
		cfg.registrations = append(cfg.registrations, func(srv *mcp.Server) {
			srv.AddPrompt(prompt, handler)
		})
	}
}

// WithResourceTemplate registers a resource template. Use a scheme other than
// vra:// to stay clear of the builtin resources.
func WithResourceTemplate(template *mcp.ResourceTemplate, handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)) Option {
	return func(cfg *serverConfig) {
		cfg.registrations = append(cfg.registrations, func(srv *mcp.Server) {
			srv.AddResourceTemplate(template, handler)
		})
	}
}
