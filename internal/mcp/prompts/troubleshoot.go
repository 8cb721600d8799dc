package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleTroubleshoot implements the request troubleshooting workflow.
func HandleTroubleshoot(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		id := argument(req, "request_id")
		if id == "" {
			return nil, fmt.Errorf("request_id is required")
		}

		var sb strings.Builder

		fmt.Fprintf(&sb, "# Troubleshoot vRA Request %s\n\n", id)
		sb.WriteString("Find out why this request failed or is not finishing, using as few calls as possible.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		fmt.Fprintf(&sb, "1. **State**: call `vra_request_status` with `request_id: %q` and `include_resources: true`\n", id)
		sb.WriteString("   - `completion_details` usually names the failing component or reservation\n")
		sb.WriteString("   - `phase` tells whether it is waiting for approval or running\n")
		sb.WriteString("2. **Compare**: query other requests for the same item, e.g. `vra_query` on `requests` with\n")
		sb.WriteString("   `.[] | select(.requestedItemName == \"<item>\") | {requestNumber, state, dateCreated}`\n")
		sb.WriteString("3. **Capacity**: reservation failures show up as allocation errors; check `vra_query` on `reservations`\n")
		sb.WriteString("   with `.[] | {name, subTenantName, allocationPercentage}`\n")
		sb.WriteString("4. **Leftovers**: resources listed for a failed request may need to be cleaned up; show them with `vra_deployment`\n")

		sb.WriteString("\n## Stuck Requests\n\n")
		if cfg.WaitTimeout > 0 {
			fmt.Fprintf(&sb, "A request still `IN_PROGRESS` after %s is unusual. ", cfg.WaitTimeout)
		}
		sb.WriteString("Check `phase` first: `PENDING_PRE_APPROVAL` means someone has to approve it in the vRA portal.\n")

		return userPrompt("Troubleshoot request "+id, sb.String()), nil
	}
}
