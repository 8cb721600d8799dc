package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Day-2 operation names as published by vRA.
const (
	OperationPowerOn  = "Power On"
	OperationPowerOff = "Power Off"
	OperationReboot   = "Reboot"
	OperationScaleOut = "Scale Out"
)

// Deployment is a provisioned resource together with its child resources.
// Children of a known type (virtual machines, NSX load balancers and edges,
// existing networks, nested deployments) are loaded recursively.
type Deployment struct {
	Resource *ConsumerResource
	Children []*Deployment

	session *Session
}

// LoadDeployment fetches a provisioned resource and its children.
func LoadDeployment(ctx context.Context, s *Session, resourceID string) (*Deployment, error) {
	res, err := s.ProvisionedItem(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	d := &Deployment{Resource: res, session: s}
	if !res.HasChildren {
		return d, nil
	}

	views, err := s.ChildResourceViews(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	for _, view := range views {
		switch view.ResourceType {
		case ResourceTypeVirtual, ResourceTypeLoadBalancer, ResourceTypeEdge, ResourceTypeNetwork, ResourceTypeDeployment:
		default:
			continue
		}
		child, err := LoadDeployment(ctx, s, view.ResourceID)
		if err != nil {
			return nil, fmt.Errorf("loading child %q of %q: %w", view.ResourceID, resourceID, err)
		}
		d.Children = append(d.Children, child)
	}
	return d, nil
}

// Kind returns a short name for the resource type.
func (d *Deployment) Kind() string {
	switch d.Resource.TypeID() {
	case ResourceTypeDeployment:
		return "deployment"
	case ResourceTypeVirtual:
		return "virtual_machine"
	case ResourceTypeLoadBalancer:
		return "load_balancer"
	case ResourceTypeEdge:
		return "edge"
	case ResourceTypeNetwork:
		return "network"
	default:
		return "resource"
	}
}

// IsVirtualMachine reports whether the resource is a virtual machine.
func (d *Deployment) IsVirtualMachine() bool {
	return d.Resource.TypeID() == ResourceTypeVirtual
}

// Walk calls fn for the deployment and every descendant, depth first.
func (d *Deployment) Walk(fn func(depth int, d *Deployment)) {
	d.walk(0, fn)
}

func (d *Deployment) walk(depth int, fn func(int, *Deployment)) {
	fn(depth, d)
	for _, c := range d.Children {
		c.walk(depth+1, fn)
	}
}

func (d *Deployment) actionPath(op *ResourceOperation) string {
	return resourcesPath + "/" + url.PathEscape(d.Resource.ID) + "/actions/" + url.PathEscape(op.ID) + "/requests"
}

func (d *Deployment) operation(name string) (*ResourceOperation, error) {
	op, ok := d.Resource.Operation(name)
	if !ok {
		return nil, fmt.Errorf("operation %q on %q: %w", name, d.Resource.Name, ErrNotFound)
	}
	return op, nil
}

// OperationTemplate retrieves the request template of a day-2 operation.
// Modify it and pass it to ExecuteOperation.
func (d *Deployment) OperationTemplate(ctx context.Context, name string) (map[string]any, error) {
	op, err := d.operation(name)
	if err != nil {
		return nil, err
	}
	var tmpl map[string]any
	if err := d.session.Do(ctx, http.MethodGet, d.actionPath(op)+"/template", nil, nil, &tmpl); err != nil {
		return nil, fmt.Errorf("getting %q template for %q: %w", name, d.Resource.Name, err)
	}
	return tmpl, nil
}

// ExecuteOperation submits a day-2 operation with the given payload.
func (d *Deployment) ExecuteOperation(ctx context.Context, name string, payload map[string]any) error {
	op, err := d.operation(name)
	if err != nil {
		return err
	}
	if err := d.session.Do(ctx, http.MethodPost, d.actionPath(op), nil, payload, nil); err != nil {
		return fmt.Errorf("executing %q on %q: %w", name, d.Resource.Name, err)
	}
	return nil
}

// runDefault executes an operation with its unmodified template.
func (d *Deployment) runDefault(ctx context.Context, name string) error {
	tmpl, err := d.OperationTemplate(ctx, name)
	if err != nil {
		return err
	}
	return d.ExecuteOperation(ctx, name, tmpl)
}

func (d *Deployment) requireVM(op string) error {
	if !d.IsVirtualMachine() {
		return fmt.Errorf("%s: %q is a %s, not a virtual machine", op, d.Resource.Name, d.Kind())
	}
	return nil
}

// PowerOn powers on a virtual machine.
func (d *Deployment) PowerOn(ctx context.Context) error {
	if err := d.requireVM(OperationPowerOn); err != nil {
		return err
	}
	return d.runDefault(ctx, OperationPowerOn)
}

// PowerOff powers off a virtual machine.
func (d *Deployment) PowerOff(ctx context.Context) error {
	if err := d.requireVM(OperationPowerOff); err != nil {
		return err
	}
	return d.runDefault(ctx, OperationPowerOff)
}

// Reboot reboots a virtual machine.
func (d *Deployment) Reboot(ctx context.Context) error {
	if err := d.requireVM(OperationReboot); err != nil {
		return err
	}
	return d.runDefault(ctx, OperationReboot)
}

// ScaleOut sets the cluster size of every machine component of the
// deployment to n and submits the Scale Out operation.
func (d *Deployment) ScaleOut(ctx context.Context, n int) error {
	if n < 1 {
		return fmt.Errorf("scale out: cluster size must be positive, got %d", n)
	}
	tmpl, err := d.OperationTemplate(ctx, OperationScaleOut)
	if err != nil {
		return err
	}
	if setClusterSize(tmpl, n) == 0 {
		return fmt.Errorf("scale out: no scalable component in %q template", d.Resource.Name)
	}
	return d.ExecuteOperation(ctx, OperationScaleOut, tmpl)
}

// setClusterSize sets data.<component>.data.<machine>.data._cluster and
// returns the number of machines updated.
func setClusterSize(tmpl map[string]any, n int) int {
	updated := 0
	components, _ := tmpl["data"].(map[string]any)
	for _, c := range components {
		component, _ := c.(map[string]any)
		machines, _ := component["data"].(map[string]any)
		for _, m := range machines {
			machine, _ := m.(map[string]any)
			data, ok := machine["data"].(map[string]any)
			if !ok {
				continue
			}
			data["_cluster"] = n
			updated++
		}
	}
	return updated
}
