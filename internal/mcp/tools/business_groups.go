package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/vra-mcp/pkg/client"
)

// BusinessGroupsInput is the input for vra_business_groups.
type BusinessGroupsInput struct {
	Name         string `json:"name,omitempty" jsonschema:"Only groups whose name contains this text (case-insensitive)"`
	User         string `json:"user,omitempty" jsonschema:"List the groups of this principal (user@domain) instead of all groups"`
	Role         string `json:"role,omitempty" jsonschema:"Role held by user: CSP_SUBTENANT_MANAGER, CSP_SUPPORT, CSP_CONSUMER_WITH_SHARED_ACCESS or CSP_CONSUMER"`
	ExpandGroups bool   `json:"expand_groups,omitempty" jsonschema:"Include groups reached through SSO group membership of user"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Max groups to return (default: 50)"`
}

// BusinessGroupsOutput is the output for vra_business_groups.
type BusinessGroupsOutput struct {
	BusinessGroups []BusinessGroupInfo `json:"business_groups,omitempty"`
	Total          int                 `json:"total"`
	Truncated      bool                `json:"truncated,omitempty"`
}

// ToolBusinessGroups lists business groups.
func ToolBusinessGroups(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input BusinessGroupsInput) (*sdkmcp.CallToolResult, BusinessGroupsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input BusinessGroupsInput) (*sdkmcp.CallToolResult, BusinessGroupsOutput, error) {
		if input.Role != "" && input.User == "" {
			return nil, BusinessGroupsOutput{}, ErrInvalidInput("role requires user")
		}

		var (
			groups []client.BusinessGroup
			err    error
		)
		switch {
		case input.User != "":
			groups, err = d.Session.BusinessGroupsByUser(ctx, input.User, input.Role, input.ExpandGroups)
		case input.Name != "":
			groups, err = d.Session.BusinessGroupsByName(ctx, input.Name)
		default:
			groups, err = d.Session.BusinessGroups(ctx)
		}
		if err != nil {
			return nil, BusinessGroupsOutput{}, WrapVRAError(err)
		}

		output := BusinessGroupsOutput{Total: len(groups)}
		groups, output.Truncated = truncate(groups, d.Config.ClampLimit(input.Limit))
		for _, g := range groups {
			output.BusinessGroups = append(output.BusinessGroups, toBusinessGroupInfo(g))
		}
		return nil, output, nil
	}
}
