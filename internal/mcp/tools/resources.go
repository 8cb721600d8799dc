package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/vra-mcp/internal/indexer"
	"github.com/usestring/vra-mcp/pkg/client"
)

// ProvisionedItemsInput is the input for vra_provisioned_items.
type ProvisionedItemsInput struct {
	Name          string `json:"name,omitempty" jsonschema:"Only items whose name contains this text (case-insensitive)"`
	Query         string `json:"query,omitempty" jsonschema:"Name words that must all appear, e.g. 'web 0042' matches dev-web-0042"`
	Type          string `json:"type,omitempty" jsonschema:"Only items of this resource type id, e.g. Infrastructure.Virtual"`
	Status        string `json:"status,omitempty" jsonschema:"Only items in this status, e.g. ON, OFF, ACTIVE"`
	Owner         string `json:"owner,omitempty" jsonschema:"Only items owned by this principal (user@domain)"`
	BusinessGroup string `json:"business_group,omitempty" jsonschema:"Only items of this business group (name or id)"`
	CatalogItem   string `json:"catalog_item,omitempty" jsonschema:"Only items provisioned from this catalog item (name or id)"`
	ParentID      string `json:"parent_id,omitempty" jsonschema:"Only direct children of this provisioned item id"`
	Refresh       bool   `json:"refresh,omitempty" jsonschema:"Reload the resource index from vRA before filtering"`
	Limit         int    `json:"limit,omitempty" jsonschema:"Max items to return (default: 50)"`
}

// ProvisionedItemsOutput is the output for vra_provisioned_items.
type ProvisionedItemsOutput struct {
	Items     []ResourceInfo `json:"items,omitempty"`
	Total     int            `json:"total"`
	Truncated bool           `json:"truncated,omitempty"`
	IndexedAt string         `json:"indexed_at,omitempty"`
}

// ToolProvisionedItems lists provisioned items from the resource index.
func ToolProvisionedItems(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ProvisionedItemsInput) (*sdkmcp.CallToolResult, ProvisionedItemsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ProvisionedItemsInput) (*sdkmcp.CallToolResult, ProvisionedItemsOutput, error) {
		refresh := d.Resources.RefreshIfStale
		if input.Refresh {
			refresh = d.Resources.Refresh
		}
		if err := refresh(ctx); err != nil {
			return nil, ProvisionedItemsOutput{}, WrapVRAError(err)
		}

		items := d.Resources.Search(indexer.Filter{
			Name:          input.Name,
			Query:         input.Query,
			Type:          input.Type,
			Status:        input.Status,
			Owner:         input.Owner,
			BusinessGroup: input.BusinessGroup,
			CatalogItem:   input.CatalogItem,
			ParentID:      input.ParentID,
		})

		output := ProvisionedItemsOutput{Total: len(items)}
		lastSync := d.Resources.LastSync()
		output.IndexedAt = formatTime(&lastSync)
		items, output.Truncated = truncate(items, d.Config.ClampLimit(input.Limit))
		for _, it := range items {
			output.Items = append(output.Items, toResourceInfo(it))
		}
		return nil, output, nil
	}
}

// DeploymentInput is the input for vra_deployment.
type DeploymentInput struct {
	Resource string `json:"resource" jsonschema:"Provisioned item id or name"`
}

// DeploymentResource is one node of a deployment, listed depth first.
type DeploymentResource struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Type       string   `json:"type,omitempty"`
	Status     string   `json:"status,omitempty"`
	Depth      int      `json:"depth"`
	ParentID   string   `json:"parent_id,omitempty"`
	Operations []string `json:"operations,omitempty"`
}

// DeploymentOutput is the output for vra_deployment.
type DeploymentOutput struct {
	RootID    string               `json:"root_id"`
	Resources []DeploymentResource `json:"resources,omitempty"`
	Machines  int                  `json:"machines"`
}

// ToolDeployment loads a provisioned item together with its children.
func ToolDeployment(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input DeploymentInput) (*sdkmcp.CallToolResult, DeploymentOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input DeploymentInput) (*sdkmcp.CallToolResult, DeploymentOutput, error) {
		dep, err := loadDeployment(ctx, d, input.Resource)
		if err != nil {
			return nil, DeploymentOutput{}, err
		}
		return nil, flattenDeployment(dep), nil
	}
}

func loadDeployment(ctx context.Context, d *Deps, ref string) (*client.Deployment, error) {
	if ref == "" {
		return nil, ErrInvalidInput("resource is required")
	}
	id, err := resolveResourceID(ctx, d.Session, ref)
	if err != nil {
		return nil, WrapVRAError(err)
	}
	dep, err := client.LoadDeployment(ctx, d.Session, id)
	if err != nil {
		return nil, WrapVRAError(err)
	}
	return dep, nil
}

func flattenDeployment(dep *client.Deployment) DeploymentOutput {
	output := DeploymentOutput{RootID: dep.Resource.ID}
	parents := []string{""}
	dep.Walk(func(depth int, n *client.Deployment) {
		parents = append(parents[:depth+1], n.Resource.ID)
		r := DeploymentResource{
			ID:       n.Resource.ID,
			Name:     n.Resource.Name,
			Kind:     n.Kind(),
			Type:     n.Resource.TypeID(),
			Status:   n.Resource.Status,
			Depth:    depth,
			ParentID: parents[depth],
		}
		for _, op := range n.Resource.Operations {
			r.Operations = append(r.Operations, op.Name)
		}
		if n.IsVirtualMachine() {
			output.Machines++
		}
		output.Resources = append(output.Resources, r)
	})
	return output
}

// Actions accepted by vra_resource_action.
const (
	ActionPowerOn  = "power_on"
	ActionPowerOff = "power_off"
	ActionReboot   = "reboot"
	ActionScaleOut = "scale_out"
)

// ResourceActionInput is the input for vra_resource_action.
type ResourceActionInput struct {
	Resource string `json:"resource" jsonschema:"Provisioned item id or name"`
	Action   string `json:"action" jsonschema:"power_on, power_off, reboot or scale_out"`
	Count    int    `json:"count,omitempty" jsonschema:"New number of machines per component (scale_out only)"`
}

// ResourceActionOutput is the output for vra_resource_action.
type ResourceActionOutput struct {
	Submitted []string `json:"submitted,omitempty"`
	Failed    []string `json:"failed,omitempty"`
	Hint      string   `json:"hint,omitempty"`
}

// ToolResourceAction runs a day-2 action. Power actions on a deployment apply
// to every virtual machine in it.
func ToolResourceAction(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ResourceActionInput) (*sdkmcp.CallToolResult, ResourceActionOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ResourceActionInput) (*sdkmcp.CallToolResult, ResourceActionOutput, error) {
		var power func(*client.Deployment, context.Context) error
		switch input.Action {
		case ActionPowerOn:
			power = (*client.Deployment).PowerOn
		case ActionPowerOff:
			power = (*client.Deployment).PowerOff
		case ActionReboot:
			power = (*client.Deployment).Reboot
		case ActionScaleOut:
			if input.Count < 1 {
				return nil, ResourceActionOutput{}, ErrInvalidInput("count must be at least 1 for scale_out")
			}
		default:
			return nil, ResourceActionOutput{}, ErrInvalidInput(fmt.Sprintf("unknown action %q", input.Action))
		}

		dep, err := loadDeployment(ctx, d, input.Resource)
		if err != nil {
			return nil, ResourceActionOutput{}, err
		}

		var output ResourceActionOutput
		if power == nil {
			if err := dep.ScaleOut(ctx, input.Count); err != nil {
				return nil, ResourceActionOutput{}, WrapVRAError(err)
			}
			d.resourcesChanged()
			output.Submitted = []string{dep.Resource.Name}
			return nil, output, nil
		}

		var vms []*client.Deployment
		dep.Walk(func(_ int, n *client.Deployment) {
			if n.IsVirtualMachine() {
				vms = append(vms, n)
			}
		})
		if len(vms) == 0 {
			return nil, ResourceActionOutput{}, ErrInvalidInput(dep.Resource.Name + " contains no virtual machine")
		}

		for _, vm := range vms {
			if err := power(vm, ctx); err != nil {
				output.Failed = append(output.Failed, vm.Resource.Name+": "+err.Error())
				continue
			}
			output.Submitted = append(output.Submitted, vm.Resource.Name)
		}
		if len(output.Submitted) == 0 {
			return nil, ResourceActionOutput{}, &CodedError{
				Code:    ErrCodeVRAError,
				Message: "action failed on every machine: " + strings.Join(output.Failed, "; "),
			}
		}
		d.resourcesChanged()
		output.Hint = "Actions run asynchronously; use vra_requests to follow them."
		return nil, output, nil
	}
}
