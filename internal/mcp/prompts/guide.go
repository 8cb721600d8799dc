package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleGuide serves the tool usage guide.
func HandleGuide(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# vRealize Automation Tool Guide\n\n")
		if cfg.Host != "" {
			fmt.Fprintf(&sb, "Connected to **%s**, tenant **%s**.\n\n", cfg.Host, cfg.Tenant)
		}

		// --- Names and ids ---
		sb.WriteString("## Names and Ids\n\n")
		sb.WriteString("Tools taking a catalog item, provisioned item or business group accept a UUID or a name.\n")
		sb.WriteString("- An exact (case-insensitive) name match wins\n")
		sb.WriteString("- Otherwise the name must be contained in exactly one record\n")
		sb.WriteString("- Several matches fail with `INVALID_INPUT`: retry with the id or a longer name\n")

		// --- Listing ---
		sb.WriteString("\n## Listing (Token-Optimized)\n\n")
		sb.WriteString("| Goal | Tool | Example |\n")
		sb.WriteString("|------|------|--------|\n")
		sb.WriteString("| Business groups of a user | `vra_business_groups` | `user: \"jdoe@corp.local\"` |\n")
		sb.WriteString("| Items a group can request | `vra_catalog_items` | `business_group: \"Development\"` |\n")
		sb.WriteString("| Machines by name | `vra_provisioned_items` | `name: \"dev-\", type: \"Infrastructure.Virtual\"` |\n")
		sb.WriteString("| Failed requests | `vra_requests` | `state: \"FAILED\"` |\n")
		sb.WriteString("\nLists are cut to `limit` entries; check `total` and `truncated` before concluding something is missing.\n")

		// --- Ad-hoc queries ---
		sb.WriteString("\n## Ad-hoc Queries\n\n")
		sb.WriteString("`vra_query` runs a jq expression over a whole collection with the raw vRA field names:\n")
		sb.WriteString("- `.[] | select(.state == \"FAILED\") | .requestNumber` on `requests`\n")
		sb.WriteString("- `group_by(.resourceTypeRef.id) | map({type: .[0].resourceTypeRef.id, n: length})` on `provisioned_items`\n")
		sb.WriteString("- `.[] | select(.allocationPercentage > 80) | .name` on `reservations`\n")

		// --- Requests ---
		sb.WriteString("\n## Requests\n\n")
		sb.WriteString("1. `vra_request_template` shows the body a request submits; only keys present there can be set through `params`\n")
		sb.WriteString("2. `vra_request_catalog_item` reports the params it could not apply in `ignored_params`\n")
		sb.WriteString("3. Provisioning takes minutes. Submit without `wait`, then poll with `vra_request_status`\n")
		if cfg.WaitTimeout > 0 {
			fmt.Fprintf(&sb, "4. `wait: true` blocks for at most %s unless `timeout_seconds` is set; `wait_timed_out` tells you the request is still running\n", cfg.WaitTimeout)
		}

		// --- Errors ---
		sb.WriteString("\n## Error Codes\n\n")
		sb.WriteString("- `NOT_FOUND`: no record with that id or name\n")
		sb.WriteString("- `INVALID_INPUT`: fix the arguments (ambiguous name, missing field, item not entitled to the group)\n")
		sb.WriteString("- `AUTH_ERROR`: the session token expired or lacks the role; do not retry\n")
		sb.WriteString("- `TIMEOUT` and `VRA_ERROR`: the appliance failed; retrying once is reasonable\n")

		return userPrompt("Guide to the vRA tools", sb.String()), nil
	}
}
