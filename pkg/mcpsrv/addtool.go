package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/vra-mcp/internal/mcp/tools"
)

// AddTool registers a tool on srv after checking its output type the way the
// builtin vra_* tools are checked. It panics at registration when Out would
// produce structured content that fails the schema the SDK infers from it:
// a nil slice encoded as null, or a field such as time.Time or
// client.RequestTemplate whose JSON form differs from its Go shape.
//
// WithTool and WithDepsTool call it; use it directly for tools added through
// Server.MCPServer.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}

// CheckOutputSchema runs the registration check of AddTool on Out alone, so
// a plugin can assert its output types in a unit test.
func CheckOutputSchema[Out any](toolName string) {
	tools.CheckOutputSchema[Out](toolName)
}
