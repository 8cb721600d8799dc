// Package mcpsrv provides an extensible MCP server for vRealize Automation 7.
//
// This package exposes a high-level API for creating and running an MCP server
// with all builtin vRA tools, prompts, and resources on top of a logged-in
// client.Session. Users can extend the server with custom tools, prompts,
// and resources using functional options.
//
// # Basic Usage
//
// Log in and serve over stdio:
//
//	s, err := client.Login(ctx, client.Credentials{
//	    Host:     "vra.corp.local",
//	    Username: "admin@corp.local",
//	    Password: os.Getenv("VRA_PASSWORD"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	server, err := mcpsrv.NewServer(s)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    Query string `json:"query"`
//	}
//
//	type MyOutput struct {
//	    Count int `json:"count"`
//	}
//
//	func myHandler(ctx context.Context, req *mcp.CallToolRequest, input MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	    return nil, MyOutput{Count: 42}, nil
//	}
//
//	server, err := mcpsrv.NewServer(
//	    s,
//	    mcpsrv.WithTool(&mcp.Tool{Name: "my_tool", Description: "My tool"}, myHandler),
//	)
//
// # Configuration
//
// Settings are read from the environment (see the VRA_* and LOG_* variables)
// and can be overridden with options:
//
//	server, err := mcpsrv.NewServer(
//	    s,
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/vra-mcp.log"),
//	)
package mcpsrv
