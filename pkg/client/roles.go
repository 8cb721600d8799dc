package client

import (
	"context"
	"fmt"
	"net/url"
)

// Roles lists the roles defined in a tenant. An empty tenant means the
// session tenant.
func (s *Session) Roles(ctx context.Context, tenant string) ([]Role, error) {
	if tenant == "" {
		tenant = s.tenant
	}
	roles, err := collect[Role](ctx, s, "/identity/api/tenants/"+url.PathEscape(tenant)+"/roles", nil)
	if err != nil {
		return nil, fmt.Errorf("listing roles of tenant %q: %w", tenant, err)
	}
	return roles, nil
}

// PrincipalRoles lists the roles assigned to a principal (user@domain) in a
// tenant. An empty tenant means the session tenant.
func (s *Session) PrincipalRoles(ctx context.Context, tenant, principal string) ([]Role, error) {
	if tenant == "" {
		tenant = s.tenant
	}
	path := "/identity/api/tenants/" + url.PathEscape(tenant) + "/principals/" + url.PathEscape(principal) + "/roles"
	roles, err := collect[Role](ctx, s, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing roles of %q: %w", principal, err)
	}
	return roles, nil
}
