package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/vra-mcp/internal/mcp/tools"
)

// Resource URI scheme: vra://
// Supported URIs:
//   vra://request/{id}
//   vra://resource/{id}
//   vra://template/{catalogItemId}

const resourceScheme = "vra://"

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "vra://request/{id}",
		Name:        "Catalog Request",
		Description: "Full catalog request record as returned by vRA. The vra_request_status tool already returns a summary; fetch this for every raw field.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceRequest)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "vra://resource/{id}",
		Name:        "Provisioned Resource",
		Description: "Extended view of a provisioned resource, including its data section (IP addresses, disks, custom properties). High context cost for machines.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.4,
		},
	}, s.handleResourceView)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "vra://template/{catalogItemId}",
		Name:        "Request Template",
		Description: "Request template of a catalog item: the body vra_request_catalog_item patches and submits. Served from the template cache.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.7,
		},
	}, s.handleResourceTemplate)
}

// Resource handlers

func (s *Server) handleResourceRequest(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	r, err := s.deps.Session.Request(ctx, params["id"])
	if err != nil {
		return nil, resourceError(req.Params.URI, err)
	}
	return toResourceResult(req.Params.URI, r)
}

func (s *Server) handleResourceView(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	view, err := s.deps.Session.ResourceView(ctx, params["id"])
	if err != nil {
		return nil, resourceError(req.Params.URI, err)
	}
	return toResourceResult(req.Params.URI, view)
}

func (s *Server) handleResourceTemplate(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.deps.RequestTemplate(ctx, params["id"])
	if err != nil {
		return nil, resourceError(req.Params.URI, err)
	}
	return toResourceResult(req.Params.URI, tmpl)
}

// Helper functions

// resourceError maps a missing record to the protocol's not-found error.
func resourceError(uri string, err error) error {
	wrapped := tools.WrapVRAError(err)
	var coded *tools.CodedError
	if errors.As(wrapped, &coded) && coded.Code == tools.ErrCodeNotFound {
		return sdkmcp.ResourceNotFoundError(uri)
	}
	return wrapped
}

// parseResourceURI extracts parameters from a vra:// URI.
func parseResourceURI(uri string) (map[string]string, error) {
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, tools.ErrInvalidInput("invalid URI scheme: expected vra://")
	}

	path := strings.TrimPrefix(uri, resourceScheme)
	parts := strings.Split(path, "/")

	if len(parts) < 2 || parts[1] == "" {
		return nil, tools.ErrInvalidInput("resource URI requires a type and an id")
	}

	switch parts[0] {
	case "request", "resource", "template":
	default:
		return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", parts[0]))
	}
	if len(parts) > 2 {
		return nil, tools.ErrInvalidInput(fmt.Sprintf("%s URI takes a single id", parts[0]))
	}

	return map[string]string{"type": parts[0], "id": parts[1]}, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
