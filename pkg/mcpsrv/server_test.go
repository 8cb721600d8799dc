package mcpsrv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/vra-mcp/internal/config"
	"github.com/usestring/vra-mcp/pkg/client"
)

func testSession(t *testing.T) *client.Session {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /identity/api/tokens", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "token-1"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s, err := client.Login(context.Background(), client.Credentials{Username: "admin", Password: "secret", Host: srv.URL})
	require.NoError(t, err)
	return s
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Load()
	cfg.LogFile = filepath.Join(t.TempDir(), "vra-mcp.log")
	return cfg
}

type echoInput struct {
	Text string `json:"text"`
}

type echoOutput struct {
	Text string `json:"text"`
	Host string `json:"host"`
}

func listTools(t *testing.T, srv *Server) []string {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	c := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "1.0.0"}, nil)
	cs, err := c.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	res, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	return names
}

func TestNewServer_RequiresSession(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)
}

func TestNewServer_Builtins(t *testing.T) {
	srv, err := NewServer(testSession(t), WithConfig(testConfig(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	assert.NotNil(t, srv.Deps().Templates)
	assert.NotNil(t, srv.Deps().Query)
	assert.Len(t, listTools(t, srv), 12)
}

func TestNewServer_CustomToolsOnly(t *testing.T) {
	echo := func(ctx context.Context, req *mcp.CallToolRequest, in echoInput) (*mcp.CallToolResult, echoOutput, error) {
		return nil, echoOutput{Text: in.Text}, nil
	}
	hostTool := func(d *Deps) func(ctx context.Context, req *mcp.CallToolRequest, in echoInput) (*mcp.CallToolResult, echoOutput, error) {
		return func(ctx context.Context, req *mcp.CallToolRequest, in echoInput) (*mcp.CallToolResult, echoOutput, error) {
			return nil, echoOutput{Text: in.Text, Host: d.Session.Host()}, nil
		}
	}

	srv, err := NewServer(testSession(t),
		WithConfig(testConfig(t)),
		WithLogLevel("debug"),
		WithoutBuiltinTools(),
		WithoutBuiltinPrompts(),
		WithTool(&mcp.Tool{Name: "echo", Description: "Echo text"}, echo),
		WithDepsTool(&mcp.Tool{Name: "echo_host", Description: "Echo text with the vRA host"}, hostTool),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	assert.ElementsMatch(t, []string{"echo", "echo_host"}, listTools(t, srv))
}

func TestAddTool_PanicsOnNullableOutput(t *testing.T) {
	type badOutput struct {
		Items []string `json:"items"`
	}
	bad := func(ctx context.Context, req *mcp.CallToolRequest, in echoInput) (*mcp.CallToolResult, badOutput, error) {
		return nil, badOutput{}, nil
	}

	srv := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "1.0.0"}, nil)
	assert.Panics(t, func() {
		AddTool(srv, &mcp.Tool{Name: "bad"}, bad)
	})
}

func TestCheckOutputSchema(t *testing.T) {
	type submitted struct {
		RequestID string   `json:"request_id"`
		Ignored   []string `json:"ignored_params,omitempty"`
	}
	type withTemplate struct {
		Template client.RequestTemplate `json:"template"`
	}

	assert.NotPanics(t, func() { CheckOutputSchema[submitted]("submit") })
	assert.Panics(t, func() { CheckOutputSchema[withTemplate]("template") })
}
