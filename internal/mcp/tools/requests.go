package tools

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/vra-mcp/internal/patch"
	"github.com/usestring/vra-mcp/pkg/client"
)

// RequestCatalogItemInput is the input for vra_request_catalog_item.
type RequestCatalogItemInput struct {
	CatalogItem    string         `json:"catalog_item" jsonschema:"Catalog item id or name"`
	BusinessGroup  string         `json:"business_group" jsonschema:"Business group name the request is made for"`
	Reasons        string         `json:"reasons" jsonschema:"Reasons for the request"`
	Description    string         `json:"description,omitempty" jsonschema:"Request description"`
	Params         map[string]any `json:"params,omitempty" jsonschema:"Values merged over the request template (see vra_request_template). Keys missing from the template are ignored and reported"`
	Wait           bool           `json:"wait,omitempty" jsonschema:"Wait for the request to finish (default: false)"`
	TimeoutSeconds int            `json:"timeout_seconds,omitempty" jsonschema:"Max seconds to wait when wait is set (default: REQUEST_WAIT_TIMEOUT_MS)"`
}

// RequestCatalogItemOutput is the output for vra_request_catalog_item.
type RequestCatalogItemOutput struct {
	Request       RequestInfo `json:"request"`
	IgnoredParams []string    `json:"ignored_params,omitempty"`
	WaitTimedOut  bool        `json:"wait_timed_out,omitempty"`
	Hint          string      `json:"hint,omitempty"`
}

// ToolRequestCatalogItem submits a catalog item request.
func ToolRequestCatalogItem(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input RequestCatalogItemInput) (*sdkmcp.CallToolResult, RequestCatalogItemOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input RequestCatalogItemInput) (*sdkmcp.CallToolResult, RequestCatalogItemOutput, error) {
		switch {
		case input.CatalogItem == "":
			return nil, RequestCatalogItemOutput{}, ErrInvalidInput("catalog_item is required")
		case input.BusinessGroup == "":
			return nil, RequestCatalogItemOutput{}, ErrInvalidInput("business_group is required")
		case input.Reasons == "":
			return nil, RequestCatalogItemOutput{}, ErrInvalidInput("reasons is required")
		}

		bg, err := d.Session.BusinessGroupByName(ctx, input.BusinessGroup)
		if err != nil {
			return nil, RequestCatalogItemOutput{}, WrapVRAError(err)
		}
		item, err := resolveCatalogItem(ctx, d.Session, input.CatalogItem)
		if err != nil {
			return nil, RequestCatalogItemOutput{}, WrapVRAError(err)
		}
		if !item.EntitledTo(bg.ID) {
			return nil, RequestCatalogItemOutput{}, ErrInvalidInput(
				"catalog item " + item.Name() + " is not entitled to business group " + bg.Name)
		}

		tmpl, err := d.RequestTemplate(ctx, item.ID())
		if err != nil {
			return nil, RequestCatalogItemOutput{}, WrapVRAError(err)
		}
		tmpl.BusinessGroupID = bg.ID
		tmpl.SetReasons(input.Reasons)
		if input.Description != "" {
			tmpl.SetDescription(input.Description)
		}

		var output RequestCatalogItemOutput
		if len(input.Params) > 0 {
			m, err := tmpl.ToMap()
			if err != nil {
				return nil, RequestCatalogItemOutput{}, WrapVRAError(err)
			}
			output.IgnoredParams = patch.Merge(m, input.Params)
			if tmpl, err = client.RequestTemplateFromMap(m); err != nil {
				return nil, RequestCatalogItemOutput{}, ErrInvalidInput("params produce an invalid template: " + err.Error())
			}
		}

		submitted, err := d.Session.RequestCatalogItem(ctx, item.ID(), tmpl)
		if err != nil {
			return nil, RequestCatalogItemOutput{}, WrapVRAError(err)
		}
		d.resourcesChanged()
		slog.Info("catalog item requested",
			slog.String("catalog_item", item.Name()),
			slog.String("business_group", bg.Name),
			slog.String("request_id", submitted.ID),
		)

		output.Request = toRequestInfo(submitted)
		if !input.Wait {
			output.Hint = "Use vra_request_status with request_id " + submitted.ID + " to follow the request."
			return nil, output, nil
		}

		final, timedOut, err := waitForRequest(ctx, d, submitted.ID, input.TimeoutSeconds)
		if err != nil {
			return nil, RequestCatalogItemOutput{}, err
		}
		if final != nil {
			output.Request = toRequestInfo(final)
		}
		output.WaitTimedOut = timedOut
		return nil, output, nil
	}
}

// waitForRequest polls a request until it is done or the timeout expires.
// A request ending in a failure state is not an error: its state is returned.
func waitForRequest(ctx context.Context, d *Deps, id string, timeoutSeconds int) (*client.CatalogRequest, bool, error) {
	timeout := d.Config.RequestWaitTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	final, err := d.Session.WaitForRequest(waitCtx, id, d.Config.RequestPollInterval, nil)
	var failed *client.RequestFailedError
	switch {
	case err == nil, errors.As(err, &failed):
		return final, false, nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return final, true, nil
	default:
		return nil, false, WrapVRAError(err)
	}
}

// RequestsInput is the input for vra_requests.
type RequestsInput struct {
	State string `json:"state,omitempty" jsonschema:"Only requests in this state, e.g. SUCCESSFUL, FAILED, IN_PROGRESS"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max requests to return (default: 50)"`
}

// RequestsOutput is the output for vra_requests.
type RequestsOutput struct {
	Requests  []RequestInfo `json:"requests,omitempty"`
	Total     int           `json:"total"`
	Truncated bool          `json:"truncated,omitempty"`
}

// ToolRequests lists catalog requests.
func ToolRequests(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input RequestsInput) (*sdkmcp.CallToolResult, RequestsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input RequestsInput) (*sdkmcp.CallToolResult, RequestsOutput, error) {
		reqs, err := d.Session.Requests(ctx)
		if err != nil {
			return nil, RequestsOutput{}, WrapVRAError(err)
		}
		if input.State != "" {
			filtered := reqs[:0]
			for _, r := range reqs {
				if strings.EqualFold(r.State, input.State) {
					filtered = append(filtered, r)
				}
			}
			reqs = filtered
		}

		output := RequestsOutput{Total: len(reqs)}
		reqs, output.Truncated = truncate(reqs, d.Config.ClampLimit(input.Limit))
		for i := range reqs {
			output.Requests = append(output.Requests, toRequestInfo(&reqs[i]))
		}
		return nil, output, nil
	}
}

// RequestStatusInput is the input for vra_request_status.
type RequestStatusInput struct {
	RequestID        string `json:"request_id" jsonschema:"Request id"`
	Wait             bool   `json:"wait,omitempty" jsonschema:"Wait for the request to finish (default: false)"`
	TimeoutSeconds   int    `json:"timeout_seconds,omitempty" jsonschema:"Max seconds to wait when wait is set"`
	IncludeResources bool   `json:"include_resources,omitempty" jsonschema:"Also list the resources the request provisioned"`
}

// RequestStatusOutput is the output for vra_request_status.
type RequestStatusOutput struct {
	Request      RequestInfo    `json:"request"`
	Resources    []ResourceInfo `json:"resources,omitempty"`
	WaitTimedOut bool           `json:"wait_timed_out,omitempty"`
}

// ToolRequestStatus reports the state of a catalog request.
func ToolRequestStatus(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input RequestStatusInput) (*sdkmcp.CallToolResult, RequestStatusOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input RequestStatusInput) (*sdkmcp.CallToolResult, RequestStatusOutput, error) {
		if input.RequestID == "" {
			return nil, RequestStatusOutput{}, ErrInvalidInput("request_id is required")
		}

		var output RequestStatusOutput
		var r *client.CatalogRequest
		if input.Wait {
			var err error
			r, output.WaitTimedOut, err = waitForRequest(ctx, d, input.RequestID, input.TimeoutSeconds)
			if err != nil {
				return nil, RequestStatusOutput{}, err
			}
		}
		if r == nil {
			var err error
			r, err = d.Session.Request(ctx, input.RequestID)
			if err != nil {
				return nil, RequestStatusOutput{}, WrapVRAError(err)
			}
		}
		output.Request = toRequestInfo(r)

		if input.IncludeResources {
			views, err := d.Session.RequestResourceViews(ctx, input.RequestID)
			if err != nil {
				return nil, RequestStatusOutput{}, WrapVRAError(err)
			}
			for _, v := range views {
				output.Resources = append(output.Resources, resourceViewInfo(v))
			}
		}
		return nil, output, nil
	}
}

func resourceViewInfo(v client.ResourceView) ResourceInfo {
	return ResourceInfo{
		ID:          v.ResourceID,
		Name:        v.Name,
		Type:        v.ResourceType,
		Status:      v.Status,
		CatalogItem: v.CatalogItemLabel,
		RequestID:   v.RequestID,
		Owners:      v.Owners,
		CreatedAt:   formatTime(v.DateCreated),
	}
}
