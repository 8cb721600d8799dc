package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleProvision implements the catalog item provisioning workflow.
func HandleProvision(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		item := argument(req, "catalog_item")
		group := argument(req, "business_group")

		var sb strings.Builder

		sb.WriteString("# Provision a vRA Catalog Item\n\n")
		sb.WriteString("You are a vRealize Automation operator. Your goal is to submit a valid request for a catalog item ")
		sb.WriteString("on behalf of the right business group, and report what was provisioned.\n\n")

		sb.WriteString("## Workflow Steps\n\n")

		step := 1
		if group == "" {
			fmt.Fprintf(&sb, "%d. **Pick the business group**: call `vra_business_groups` and ask the user which one to use if several fit\n", step)
		} else {
			fmt.Fprintf(&sb, "%d. **Check the business group**: call `vra_business_groups` with `name: %q` and confirm exactly one matches\n", step, group)
		}
		step++

		if item == "" {
			fmt.Fprintf(&sb, "%d. **Pick the catalog item**: call `vra_catalog_items` filtered by the business group\n", step)
		} else {
			fmt.Fprintf(&sb, "%d. **Resolve the catalog item**: call `vra_catalog_item` with `catalog_item: %q`\n", step, item)
		}
		step++

		fmt.Fprintf(&sb, "%d. **Read the template**: call `vra_request_template`. Component settings live under `data.<component>.data`\n", step)
		step++
		fmt.Fprintf(&sb, "%d. **Choose params**: only override keys the template already has, e.g. `{\"data\": {\"vSphere_Machine_1\": {\"data\": {\"cpu\": 4}}}}`\n", step)
		step++
		fmt.Fprintf(&sb, "%d. **Submit**: call `vra_request_catalog_item` with reasons. If `ignored_params` is not empty, tell the user which settings were dropped\n", step)
		step++
		fmt.Fprintf(&sb, "%d. **Follow**: poll `vra_request_status` with `include_resources: true` until `done` is true\n", step)

		sb.WriteString("\n## Decision Criteria\n\n")
		sb.WriteString("- `INVALID_INPUT` saying the item is not entitled: list items for the group instead of retrying\n")
		sb.WriteString("- State `FAILED` or `PROVIDER_FAILED`: report `completion_details` verbatim and stop\n")
		sb.WriteString("- State `SUCCESSFUL`: list the machines from `resources` with their names\n")
		if cfg.Tenant != "" {
			fmt.Fprintf(&sb, "\nRequests are made in tenant **%s**.\n", cfg.Tenant)
		}

		return userPrompt("Provision a catalog item", sb.String()), nil
	}
}
