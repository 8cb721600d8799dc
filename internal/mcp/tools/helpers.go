// Package tools contains MCP tool implementations for vRealize Automation.
package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/vra-mcp/pkg/client"
)

// MIME type constant.
const MimeJSON = "application/json"

// MakeJSONToolResult creates a CallToolResult with JSON text content.
func MakeJSONToolResult(v any) (*sdkmcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: string(b)},
		},
	}, nil
}

// isID reports whether s is a vRA entity id (a UUID) rather than a name.
func isID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// resolveCatalogItem accepts a catalog item id or a (partial) name.
func resolveCatalogItem(ctx context.Context, s *client.Session, ref string) (*client.EntitledCatalogItem, error) {
	if isID(ref) {
		return s.CatalogItem(ctx, ref)
	}
	return s.CatalogItemByName(ctx, ref)
}

// resolveResourceID accepts a provisioned item id or a (partial) name.
func resolveResourceID(ctx context.Context, s *client.Session, ref string) (string, error) {
	if isID(ref) {
		return ref, nil
	}
	res, err := s.ProvisionedItemByName(ctx, ref)
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

// truncate cuts items to limit and reports whether anything was dropped.
func truncate[T any](items []T, limit int) ([]T, bool) {
	if limit > 0 && len(items) > limit {
		return items[:limit], true
	}
	return items, false
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
