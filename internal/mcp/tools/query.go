package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/vra-mcp/internal/query"
)

// QueryInput is the input for vra_query.
type QueryInput struct {
	Source      string `json:"source" jsonschema:"Collection to query: business_groups, catalog_items, provisioned_items, requests, roles, reservations or events"`
	Expression  string `json:"expression" jsonschema:"jq expression evaluated against the collection as a JSON array of raw vRA records (vRA field names, e.g. .[] | select(.state == \"FAILED\") | .id)"`
	Deduplicate bool   `json:"deduplicate,omitempty" jsonschema:"Remove duplicate values (default: false)"`
	MaxResults  int    `json:"max_results,omitempty" jsonschema:"Max values to return (default: 1000)"`
}

// QueryOutput is the output for vra_query.
type QueryOutput struct {
	Values   []any    `json:"values,omitzero"`
	Errors   []string `json:"errors,omitempty"`
	RawCount int      `json:"raw_count"`
	Records  int      `json:"records"`
}

// querySources fetch the raw records of a collection.
var querySources = map[string]func(ctx context.Context, d *Deps) (any, int, error){
	"business_groups": func(ctx context.Context, d *Deps) (any, int, error) {
		v, err := d.Session.BusinessGroups(ctx)
		return v, len(v), err
	},
	"catalog_items": func(ctx context.Context, d *Deps) (any, int, error) {
		v, err := d.Session.EntitledCatalogItems(ctx, nil)
		return v, len(v), err
	},
	"provisioned_items": func(ctx context.Context, d *Deps) (any, int, error) {
		v, err := d.Session.ProvisionedItems(ctx)
		return v, len(v), err
	},
	"requests": func(ctx context.Context, d *Deps) (any, int, error) {
		v, err := d.Session.Requests(ctx)
		return v, len(v), err
	},
	"roles": func(ctx context.Context, d *Deps) (any, int, error) {
		v, err := d.Session.Roles(ctx, "")
		return v, len(v), err
	},
	"reservations": func(ctx context.Context, d *Deps) (any, int, error) {
		v, err := d.Session.ReservationsInfo(ctx)
		return v, len(v), err
	},
	"events": func(ctx context.Context, d *Deps) (any, int, error) {
		v, err := d.Session.EventBrokerEvents(ctx)
		return v, len(v), err
	},
}

func sourceNames() string {
	names := make([]string, 0, len(querySources))
	for name := range querySources {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// ToolQuery evaluates a jq expression over a vRA collection.
func ToolQuery(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, QueryOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, QueryOutput, error) {
		if input.Expression == "" {
			return nil, QueryOutput{}, ErrInvalidInput("expression is required")
		}
		fetch, ok := querySources[input.Source]
		if !ok {
			return nil, QueryOutput{}, ErrInvalidInput(fmt.Sprintf("unknown source %q (supported: %s)", input.Source, sourceNames()))
		}
		if err := d.Query.ValidateExpression(input.Expression); err != nil {
			return nil, QueryOutput{}, ErrInvalidInput(err.Error())
		}

		records, count, err := fetch(ctx, d)
		if err != nil {
			return nil, QueryOutput{}, WrapVRAError(err)
		}

		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 1000
		}
		result, err := d.Query.QueryValue(records, input.Expression, query.Options{
			Deduplicate: input.Deduplicate,
			MaxResults:  maxResults,
		})
		if err != nil {
			return nil, QueryOutput{}, ErrInvalidInput(err.Error())
		}

		return nil, QueryOutput{
			Values:   result.Values,
			Errors:   result.Errors,
			RawCount: result.RawCount,
			Records:  count,
		}, nil
	}
}
