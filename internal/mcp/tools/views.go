package tools

import (
	"github.com/usestring/vra-mcp/pkg/client"
)

// Tool outputs use their own flat records: dates are RFC 3339 strings and
// slices are omitempty so the inferred output schemas hold for zero values.

// BusinessGroupInfo is a summary of a business group.
type BusinessGroupInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CatalogItemInfo is a summary of an entitled catalog item.
type CatalogItemInfo struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Service        string   `json:"service,omitempty"`
	Status         string   `json:"status,omitempty"`
	BusinessGroups []string `json:"business_groups,omitempty"`
}

// ResourceInfo is a summary of a provisioned item.
type ResourceInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Status      string   `json:"status,omitempty"`
	CatalogItem string   `json:"catalog_item,omitempty"`
	RequestID   string   `json:"request_id,omitempty"`
	Owners      []string `json:"owners,omitempty"`
	Operations  []string `json:"operations,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	LeaseEnd    string   `json:"lease_end,omitempty"`
}

// RequestInfo is a summary of a catalog request.
type RequestInfo struct {
	ID                string `json:"id"`
	RequestNumber     int    `json:"request_number,omitempty"`
	State             string `json:"state"`
	Phase             string `json:"phase,omitempty"`
	ItemName          string `json:"item_name,omitempty"`
	BusinessGroup     string `json:"business_group,omitempty"`
	RequestedBy       string `json:"requested_by,omitempty"`
	RequestedFor      string `json:"requested_for,omitempty"`
	Reasons           string `json:"reasons,omitempty"`
	CompletionDetails string `json:"completion_details,omitempty"`
	Done              bool   `json:"done"`
	CreatedAt         string `json:"created_at,omitempty"`
	CompletedAt       string `json:"completed_at,omitempty"`
}

// RoleInfo is a summary of an authorization role.
type RoleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Scope       string `json:"scope,omitempty"`
}

func toBusinessGroupInfo(g client.BusinessGroup) BusinessGroupInfo {
	return BusinessGroupInfo{ID: g.ID, Name: g.Name, Description: g.Description}
}

func toCatalogItemInfo(e client.EntitledCatalogItem) CatalogItemInfo {
	info := CatalogItemInfo{
		ID:          e.ID(),
		Name:        e.Name(),
		Description: e.CatalogItem.Description,
		Status:      e.CatalogItem.Status,
	}
	if e.CatalogItem.ServiceRef != nil {
		info.Service = e.CatalogItem.ServiceRef.Label
	}
	for _, org := range e.EntitledOrganizations {
		name := org.SubtenantLabel
		if name == "" {
			name = org.SubtenantRef
		}
		if name != "" {
			info.BusinessGroups = append(info.BusinessGroups, name)
		}
	}
	return info
}

func toResourceInfo(r client.ConsumerResource) ResourceInfo {
	info := ResourceInfo{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.TypeID(),
		Status:    r.Status,
		RequestID: r.RequestID,
		CreatedAt: formatTime(r.DateCreated),
	}
	if r.CatalogItem != nil {
		info.CatalogItem = r.CatalogItem.Label
	}
	if r.Lease != nil {
		info.LeaseEnd = formatTime(r.Lease.End)
	}
	for _, o := range r.Owners {
		info.Owners = append(info.Owners, o.Ref)
	}
	for _, op := range r.Operations {
		info.Operations = append(info.Operations, op.Name)
	}
	return info
}

func toRequestInfo(r *client.CatalogRequest) RequestInfo {
	info := RequestInfo{
		ID:            r.ID,
		RequestNumber: r.RequestNumber,
		State:         r.State,
		Phase:         r.Phase,
		ItemName:      r.RequestedItemName,
		RequestedBy:   r.RequestedBy,
		RequestedFor:  r.RequestedFor,
		Reasons:       r.Reasons,
		Done:          r.Done(),
		CreatedAt:     formatTime(r.DateCreated),
		CompletedAt:   formatTime(r.DateCompleted),
	}
	if r.Organization != nil {
		info.BusinessGroup = r.Organization.SubtenantLabel
	}
	if r.RequestCompletion != nil {
		info.CompletionDetails = r.RequestCompletion.CompletionDetails
	}
	return info
}

func toRoleInfo(r client.Role) RoleInfo {
	info := RoleInfo{ID: r.ID, Name: r.Name, Description: r.Description}
	if r.ScopeType != nil {
		info.Scope = r.ScopeType.ID
	}
	return info
}
