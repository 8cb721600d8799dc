package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/vra-mcp/pkg/client"
)

// RolesInput is the input for vra_roles.
type RolesInput struct {
	Tenant    string `json:"tenant,omitempty" jsonschema:"Tenant whose roles are listed (default: the login tenant)"`
	Principal string `json:"principal,omitempty" jsonschema:"Only the roles assigned to this principal (user@domain)"`
}

// RolesOutput is the output for vra_roles.
type RolesOutput struct {
	Roles []RoleInfo `json:"roles,omitempty"`
}

// ToolRoles lists roles.
func ToolRoles(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input RolesInput) (*sdkmcp.CallToolResult, RolesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input RolesInput) (*sdkmcp.CallToolResult, RolesOutput, error) {
		var (
			roles []client.Role
			err   error
		)
		if input.Principal != "" {
			roles, err = d.Session.PrincipalRoles(ctx, input.Tenant, input.Principal)
		} else {
			roles, err = d.Session.Roles(ctx, input.Tenant)
		}
		if err != nil {
			return nil, RolesOutput{}, WrapVRAError(err)
		}

		var output RolesOutput
		for _, r := range roles {
			output.Roles = append(output.Roles, toRoleInfo(r))
		}
		return nil, output, nil
	}
}
