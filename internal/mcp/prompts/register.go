package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Tool usage guide
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "vra_guide",
		Description: "RECOMMENDED: Guide to the vRA tools. Explains name resolution, list limits, request waiting and error codes before you start calling tools.",
	}, HandleGuide(cfg))

	// Prompt 2: Provision a catalog item
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "provision_catalog_item",
		Description: "Walk through requesting a catalog item: pick the business group and item, read the request template, choose params, submit and follow the request.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "catalog_item",
				Description: "Catalog item name or id to provision",
				Required:    false,
			},
			{
				Name:        "business_group",
				Description: "Business group the request is made for",
				Required:    false,
			},
		},
	}, HandleProvision(cfg))

	// Prompt 3: Troubleshoot a request
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "troubleshoot_request",
		Description: "Investigate a catalog request that failed or is stuck: read its state and completion details, the resources it created and related requests.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "request_id",
				Description: "Id of the request to investigate",
				Required:    true,
			},
		},
	}, HandleTroubleshoot(cfg))
}

func userPrompt(description, text string) *sdkmcp.GetPromptResult {
	return &sdkmcp.GetPromptResult{
		Description: description,
		Messages: []*sdkmcp.PromptMessage{
			{
				Role:    "user",
				Content: &sdkmcp.TextContent{Text: text},
			},
		},
	}
}

func argument(req *sdkmcp.GetPromptRequest, name string) string {
	if req == nil || req.Params == nil || req.Params.Arguments == nil {
		return ""
	}
	return req.Params.Arguments[name]
}
