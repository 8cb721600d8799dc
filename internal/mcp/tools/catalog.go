package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/vra-mcp/pkg/client"
)

// CatalogItemsInput is the input for vra_catalog_items.
type CatalogItemsInput struct {
	Name          string `json:"name,omitempty" jsonschema:"Only items whose name contains this text (case-insensitive)"`
	BusinessGroup string `json:"business_group,omitempty" jsonschema:"Only items entitled to this business group (name)"`
	ServiceID     string `json:"service_id,omitempty" jsonschema:"Only items of this catalog service"`
	Limit         int    `json:"limit,omitempty" jsonschema:"Max items to return (default: 50)"`
}

// CatalogItemsOutput is the output for vra_catalog_items.
type CatalogItemsOutput struct {
	Items     []CatalogItemInfo `json:"items,omitempty"`
	Total     int               `json:"total"`
	Truncated bool              `json:"truncated,omitempty"`
}

// ToolCatalogItems lists entitled catalog items.
func ToolCatalogItems(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CatalogItemsInput) (*sdkmcp.CallToolResult, CatalogItemsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CatalogItemsInput) (*sdkmcp.CallToolResult, CatalogItemsOutput, error) {
		filter := &client.CatalogFilter{ServiceID: input.ServiceID}
		if input.BusinessGroup != "" {
			bg, err := d.Session.BusinessGroupByName(ctx, input.BusinessGroup)
			if err != nil {
				return nil, CatalogItemsOutput{}, WrapVRAError(err)
			}
			filter.SubtenantID = bg.ID
		}

		items, err := d.Session.EntitledCatalogItems(ctx, filter)
		if err != nil {
			return nil, CatalogItemsOutput{}, WrapVRAError(err)
		}
		if input.Name != "" {
			items, err = d.Session.FindCatalogItems(ctx, input.Name, items)
			if err != nil {
				return nil, CatalogItemsOutput{}, WrapVRAError(err)
			}
		}

		output := CatalogItemsOutput{Total: len(items)}
		items, output.Truncated = truncate(items, d.Config.ClampLimit(input.Limit))
		for _, item := range items {
			output.Items = append(output.Items, toCatalogItemInfo(item))
		}
		return nil, output, nil
	}
}

// CatalogItemInput is the input for vra_catalog_item.
type CatalogItemInput struct {
	CatalogItem string `json:"catalog_item" jsonschema:"Catalog item id, or a name (an exact match wins over partial matches)"`
}

// CatalogItemOutput is the output for vra_catalog_item.
type CatalogItemOutput struct {
	Item        CatalogItemInfo `json:"item"`
	TemplateURI string          `json:"template_uri"`
}

// ToolCatalogItem resolves a single catalog item.
func ToolCatalogItem(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CatalogItemInput) (*sdkmcp.CallToolResult, CatalogItemOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CatalogItemInput) (*sdkmcp.CallToolResult, CatalogItemOutput, error) {
		if input.CatalogItem == "" {
			return nil, CatalogItemOutput{}, ErrInvalidInput("catalog_item is required")
		}
		item, err := resolveCatalogItem(ctx, d.Session, input.CatalogItem)
		if err != nil {
			return nil, CatalogItemOutput{}, WrapVRAError(err)
		}
		return nil, CatalogItemOutput{
			Item:        toCatalogItemInfo(*item),
			TemplateURI: TemplateURI(item.ID()),
		}, nil
	}
}

// RequestTemplateInput is the input for vra_request_template.
type RequestTemplateInput struct {
	CatalogItem string `json:"catalog_item" jsonschema:"Catalog item id or name"`
}

// RequestTemplateOutput is the output for vra_request_template.
type RequestTemplateOutput struct {
	CatalogItemID string         `json:"catalog_item_id"`
	Template      map[string]any `json:"template,omitempty"`
}

// ToolRequestTemplate returns the request template of a catalog item.
func ToolRequestTemplate(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input RequestTemplateInput) (*sdkmcp.CallToolResult, RequestTemplateOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input RequestTemplateInput) (*sdkmcp.CallToolResult, RequestTemplateOutput, error) {
		if input.CatalogItem == "" {
			return nil, RequestTemplateOutput{}, ErrInvalidInput("catalog_item is required")
		}
		item, err := resolveCatalogItem(ctx, d.Session, input.CatalogItem)
		if err != nil {
			return nil, RequestTemplateOutput{}, WrapVRAError(err)
		}
		tmpl, err := d.RequestTemplate(ctx, item.ID())
		if err != nil {
			return nil, RequestTemplateOutput{}, WrapVRAError(err)
		}
		m, err := tmpl.ToMap()
		if err != nil {
			return nil, RequestTemplateOutput{}, WrapVRAError(err)
		}
		return nil, RequestTemplateOutput{CatalogItemID: item.ID(), Template: m}, nil
	}
}

// TemplateURI returns the resource URI of a catalog item's request template.
func TemplateURI(catalogItemID string) string {
	return "vra://template/" + catalogItemID
}
