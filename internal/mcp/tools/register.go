package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: vra_business_groups
	AddTool(srv, &sdkmcp.Tool{
		Name:        "vra_business_groups",
		Description: "List vRA business groups of the tenant. Filter by name substring, or pass user (and role) to list the groups a principal belongs to. Business group names are what vra_catalog_items and vra_request_catalog_item accept.",
	}, ToolBusinessGroups(d))

	// Tool 2: vra_catalog_items
	AddTool(srv, &sdkmcp.Tool{
		Name:        "vra_catalog_items",
		Description: "List the catalog items the user is entitled to request. Returns {items: [{id, name, service, status, business_groups}], total, truncated}. Filter by name substring, business_group or service_id.",
	}, ToolCatalogItems(d))

	// Tool 3: vra_catalog_item
	AddTool(srv, &sdkmcp.Tool{
		Name:        "vra_catalog_item",
		Description: "Resolve one catalog item by id or name. An exact name match wins; a name matching several items fails with INVALID_INPUT. Returns the item and the URI of its request template resource.",
	}, ToolCatalogItem(d))

	// Tool 4: vra_request_template
	AddTool(srv, &sdkmcp.Tool{
		Name:        "vra_request_template",
		Description: "Get the request template of a catalog item: the JSON body a request submits. Use its data section to learn which params vra_request_catalog_item accepts.",
	}, ToolRequestTemplate(d))

	// Tool 5: vra_request_catalog_item
	AddTool(srv, &sdkmcp.Tool{
		Name:        "vra_request_catalog_item",
		Description: "Request a catalog item for a business group. The item's template is fetched, reasons and description are set and params are merged over it; keys not in the template are returned in ignored_params. Set wait=true to poll until the request finishes.",
	}, ToolRequestCatalogItem(d))

	// Tool 6: vra_provisioned_items
	AddTool(srv, &sdkmcp.Tool{
		Name:        "vra_provisioned_items",
		Description: "List provisioned items (deployments, machines and other resources) with their status and available day-2 operations. Served from an in-memory index refreshed from vRA; filter by name, name words (query), type, status, owner, business_group, catalog_item or parent_id. Pass refresh=true after out-of-band changes.",
	}, ToolProvisionedItems(d))

	// Tool 7: vra_deployment
	AddTool(srv, &sdkmcp.Tool{
		Name:        "vra_deployment",
		Description: "Load a provisioned item and its children (machines, NSX load balancers and edges, networks, nested deployments). Returns the nodes depth first with depth and parent_id.",
	}, ToolDeployment(d))

	// Tool 8: vra_resource_action
	AddTool(srv, &sdkmcp.Tool{
		Name:        "vra_resource_action",
		Description: "Run a day-2 action: power_on, power_off or reboot a machine (or every machine of a deployment), or scale_out a deployment to count machines per component.",
	}, ToolResourceAction(d))

	// Tool 9: vra_roles
	AddTool(srv, &sdkmcp.Tool{
		Name:        "vra_roles",
		Description: "List the authorization roles of a tenant, or the roles assigned to one principal.",
	}, ToolRoles(d))

	// Tool 10: vra_requests
	AddTool(srv, &sdkmcp.Tool{
		Name:        "vra_requests",
		Description: "List catalog requests visible to the user, optionally filtered by state (SUCCESSFUL, FAILED, IN_PROGRESS, ...).",
	}, ToolRequests(d))

	// Tool 11: vra_request_status
	AddTool(srv, &sdkmcp.Tool{
		Name:        "vra_request_status",
		Description: "Get the state of a catalog request, optionally waiting until it finishes and listing the resources it provisioned.",
	}, ToolRequestStatus(d))

	// Tool 12: vra_query
	AddTool(srv, &sdkmcp.Tool{
		Name:        "vra_query",
		Description: "Evaluate a jq expression over a whole vRA collection (business_groups, catalog_items, provisioned_items, requests, roles, reservations, events). Records keep the vRA API field names. Use for ad-hoc filtering and aggregation the list tools do not offer.",
	}, ToolQuery(d))
}
