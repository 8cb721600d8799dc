package client

import (
	"strings"
	"time"
)

// Request states reported by the catalog service.
const (
	StateUnsubmitted         = "UNSUBMITTED"
	StateSubmitted           = "SUBMITTED"
	StatePendingPreApproval  = "PENDING_PRE_APPROVAL"
	StateInProgress          = "IN_PROGRESS"
	StatePendingPostApproval = "PENDING_POST_APPROVAL"
	StateSuccessful          = "SUCCESSFUL"
	StatePartiallySuccessful = "PARTIALLY_SUCCESSFUL"
	StateFailed              = "FAILED"
	StateProviderFailed      = "PROVIDER_FAILED"
	StateRejected            = "REJECTED"
)

// Business group roles accepted by BusinessGroupsByUser.
const (
	RoleBusinessGroupManager = "CSP_SUBTENANT_MANAGER"
	RoleSupportUser          = "CSP_SUPPORT"
	RoleSharedAccessUser     = "CSP_CONSUMER_WITH_SHARED_ACCESS"
	RoleBasicUser            = "CSP_CONSUMER"
)

// Resource types of deployment children.
const (
	ResourceTypeDeployment   = "composition.resource.type.deployment"
	ResourceTypeVirtual      = "Infrastructure.Virtual"
	ResourceTypeLoadBalancer = "Infrastructure.Network.LoadBalancer.NSX"
	ResourceTypeEdge         = "Infrastructure.Network.Gateway.NSX.Edge"
	ResourceTypeNetwork      = "Infrastructure.Network.Network.Existing"
)

// Page is one page of a paginated vRA collection.
type Page[T any] struct {
	Links    []Link       `json:"links,omitempty"`
	Content  []T          `json:"content" jsonschema:"required"`
	Metadata PageMetadata `json:"metadata" jsonschema:"required"`
}

// PageMetadata describes the position of a page in its collection.
type PageMetadata struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
	Offset        int `json:"offset"`
}

// Link is a hypermedia link attached to collections and views.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Ref is a reference to another entity by id and display label.
type Ref struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// Organization places an entity in a tenant and business group.
type Organization struct {
	TenantRef      string `json:"tenantRef,omitempty"`
	TenantLabel    string `json:"tenantLabel,omitempty"`
	SubtenantRef   string `json:"subtenantRef,omitempty"`
	SubtenantLabel string `json:"subtenantLabel,omitempty"`
}

// ExtensionData is the vRA key/value bag used for custom properties.
type ExtensionData struct {
	Entries []ExtensionEntry `json:"entries,omitempty"`
}

// ExtensionEntry is a single key of an ExtensionData bag.
type ExtensionEntry struct {
	Key   string      `json:"key"`
	Value *TypedValue `json:"value,omitempty"`
}

// TypedValue is a literal value tagged with its vRA type.
type TypedValue struct {
	Type  string `json:"type,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Get returns the value stored under key.
func (e *ExtensionData) Get(key string) (any, bool) {
	if e == nil {
		return nil, false
	}
	for _, entry := range e.Entries {
		if entry.Key == key {
			if entry.Value == nil {
				return nil, true
			}
			return entry.Value.Value, true
		}
	}
	return nil, false
}

// PrincipalID identifies a user or group in an identity domain.
type PrincipalID struct {
	Domain string `json:"domain"`
	Name   string `json:"name"`
}

// String returns the principal in name@domain form.
func (p PrincipalID) String() string {
	if p.Domain == "" {
		return p.Name
	}
	return p.Name + "@" + p.Domain
}

// SubtenantRole lists the principals holding a role in a business group.
type SubtenantRole struct {
	ID         string        `json:"id,omitempty"`
	Name       string        `json:"name"`
	ScopeType  string        `json:"scopeType,omitempty"`
	Principals []PrincipalID `json:"principalId,omitempty"`
}

// BusinessGroup is a vRA business group (a "subtenant" in the identity API).
type BusinessGroup struct {
	ID             string          `json:"id" jsonschema:"required"`
	Name           string          `json:"name" jsonschema:"required"`
	Description    string          `json:"description,omitempty"`
	Tenant         string          `json:"tenant,omitempty"`
	ExtensionData  *ExtensionData  `json:"extensionData,omitempty"`
	SubtenantRoles []SubtenantRole `json:"subtenantRoles,omitempty"`
}

// ProviderBinding ties a catalog item to the provider that fulfils it.
type ProviderBinding struct {
	BindingID   string `json:"bindingId,omitempty"`
	ProviderRef *Ref   `json:"providerRef,omitempty"`
}

// CatalogItem is a provisionable service definition.
type CatalogItem struct {
	ID              string           `json:"id" jsonschema:"required"`
	Name            string           `json:"name" jsonschema:"required"`
	Description     string           `json:"description,omitempty"`
	Status          string           `json:"status,omitempty"`
	StatusName      string           `json:"statusName,omitempty"`
	Version         int              `json:"version,omitempty"`
	Requestable     bool             `json:"requestable,omitempty"`
	IsNoteworthy    bool             `json:"isNoteworthy,omitempty"`
	IconID          string           `json:"iconId,omitempty"`
	Organization    *Organization    `json:"organization,omitempty"`
	ServiceRef      *Ref             `json:"serviceRef,omitempty"`
	ProviderBinding *ProviderBinding `json:"providerBinding,omitempty"`
	DateCreated     *time.Time       `json:"dateCreated,omitempty"`
	LastUpdatedDate *time.Time       `json:"lastUpdatedDate,omitempty"`
}

// EntitledOrganization is a tenant/business group pair entitled to an item.
type EntitledOrganization struct {
	TenantRef      string `json:"tenantRef,omitempty"`
	TenantLabel    string `json:"tenantLabel,omitempty"`
	SubtenantRef   string `json:"subtenantRef,omitempty"`
	SubtenantLabel string `json:"subtenantLabel,omitempty"`
}

// EntitledCatalogItem is a catalog item the current user may request.
type EntitledCatalogItem struct {
	CatalogItem           CatalogItem            `json:"catalogItem" jsonschema:"required"`
	EntitledOrganizations []EntitledOrganization `json:"entitledOrganizations,omitempty"`
}

// ID returns the id of the underlying catalog item.
func (e EntitledCatalogItem) ID() string { return e.CatalogItem.ID }

// Name returns the name of the underlying catalog item.
func (e EntitledCatalogItem) Name() string { return e.CatalogItem.Name }

// EntitledTo reports whether the item is entitled to the business group id.
// Items without entitlement data are considered entitled everywhere.
func (e EntitledCatalogItem) EntitledTo(businessGroupID string) bool {
	if len(e.EntitledOrganizations) == 0 {
		return true
	}
	for _, org := range e.EntitledOrganizations {
		if org.SubtenantRef == "" || org.SubtenantRef == businessGroupID {
			return true
		}
	}
	return false
}

// EntitledCatalogItemView is the lightweight listing form of an entitled item.
type EntitledCatalogItemView struct {
	CatalogItemID         string                 `json:"catalogItemId" jsonschema:"required"`
	Name                  string                 `json:"name" jsonschema:"required"`
	Description           string                 `json:"description,omitempty"`
	IconID                string                 `json:"iconId,omitempty"`
	IsNoteworthy          bool                   `json:"isNoteworthy,omitempty"`
	ServiceRef            *Ref                   `json:"serviceRef,omitempty"`
	CatalogItemTypeRef    *Ref                   `json:"catalogItemTypeRef,omitempty"`
	EntitledOrganizations []EntitledOrganization `json:"entitledOrganizations,omitempty"`
	DateCreated           *time.Time             `json:"dateCreated,omitempty"`
	LastUpdatedDate       *time.Time             `json:"lastUpdatedDate,omitempty"`
}

// Owner is a principal owning a provisioned resource.
type Owner struct {
	TenantName string `json:"tenantName,omitempty"`
	Ref        string `json:"ref"`
	Type       string `json:"type,omitempty"`
	Value      string `json:"value,omitempty"`
}

// Lease is the lifetime of a provisioned resource.
type Lease struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// ResourceOperation is a day-2 action available on a provisioned resource.
type ResourceOperation struct {
	ID          string `json:"id" jsonschema:"required"`
	Name        string `json:"name" jsonschema:"required"`
	Description string `json:"description,omitempty"`
	IconID      string `json:"iconId,omitempty"`
	Type        string `json:"type,omitempty"`
	ExtensionID string `json:"extensionId,omitempty"`
	BindingID   string `json:"bindingId,omitempty"`
	HasForm     bool   `json:"hasForm,omitempty"`
}

// ConsumerResource is a provisioned item: an instance of a catalog item.
type ConsumerResource struct {
	ID                string              `json:"id" jsonschema:"required"`
	Name              string              `json:"name" jsonschema:"required"`
	Description       string              `json:"description,omitempty"`
	IconID            string              `json:"iconId,omitempty"`
	ResourceTypeRef   *Ref                `json:"resourceTypeRef,omitempty"`
	Status            string              `json:"status,omitempty"`
	CatalogItem       *Ref                `json:"catalogItem,omitempty"`
	RequestID         string              `json:"requestId,omitempty"`
	ProviderBinding   *ProviderBinding    `json:"providerBinding,omitempty"`
	Owners            []Owner             `json:"owners,omitempty"`
	Organization      *Organization       `json:"organization,omitempty"`
	DateCreated       *time.Time          `json:"dateCreated,omitempty"`
	LastUpdated       *time.Time          `json:"lastUpdated,omitempty"`
	HasLease          bool                `json:"hasLease,omitempty"`
	Lease             *Lease              `json:"lease,omitempty"`
	Operations        []ResourceOperation `json:"operations,omitempty"`
	HasChildren       bool                `json:"hasChildren,omitempty"`
	ParentResourceRef *Ref                `json:"parentResourceRef,omitempty"`
	ResourceData      *ExtensionData      `json:"resourceData,omitempty"`
}

// TypeID returns the resource type id, or "" when unknown.
func (r *ConsumerResource) TypeID() string {
	if r.ResourceTypeRef == nil {
		return ""
	}
	return r.ResourceTypeRef.ID
}

// Operation returns the day-2 operation with the given name (case-insensitive).
func (r *ConsumerResource) Operation(name string) (*ResourceOperation, bool) {
	for i := range r.Operations {
		if strings.EqualFold(r.Operations[i].Name, name) {
			return &r.Operations[i], true
		}
	}
	return nil, false
}

// ResourceView is the flattened view of a provisioned resource.
type ResourceView struct {
	ResourceID       string         `json:"resourceId" jsonschema:"required"`
	Name             string         `json:"name" jsonschema:"required"`
	Description      string         `json:"description,omitempty"`
	ResourceType     string         `json:"resourceType,omitempty"`
	Status           string         `json:"status,omitempty"`
	CatalogItemID    string         `json:"catalogItemId,omitempty"`
	CatalogItemLabel string         `json:"catalogItemLabel,omitempty"`
	RequestID        string         `json:"requestId,omitempty"`
	RequestState     string         `json:"requestState,omitempty"`
	BusinessGroupID  string         `json:"businessGroupId,omitempty"`
	TenantID         string         `json:"tenantId,omitempty"`
	Owners           []string       `json:"owners,omitempty"`
	ParentResourceID string         `json:"parentResourceId,omitempty"`
	HasChildren      bool           `json:"hasChildren,omitempty"`
	DateCreated      *time.Time     `json:"dateCreated,omitempty"`
	LastUpdated      *time.Time     `json:"lastUpdated,omitempty"`
	Data             map[string]any `json:"data,omitempty"`
	Links            []Link         `json:"links,omitempty"`
}

// ScopeType is the scope a role applies to (system, tenant, business group).
type ScopeType struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Permission is a single right granted by a role.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Role is an authorization role of the identity service.
type Role struct {
	ID                  string       `json:"id" jsonschema:"required"`
	Name                string       `json:"name" jsonschema:"required"`
	Description         string       `json:"description,omitempty"`
	ScopeType           *ScopeType   `json:"scopeType,omitempty"`
	AssignedPermissions []Permission `json:"assignedPermissions,omitempty"`
}

// RequestCompletion describes how a finished request ended.
type RequestCompletion struct {
	RequestCompletionState string `json:"requestCompletionState,omitempty"`
	CompletionDetails      string `json:"completionDetails,omitempty"`
}

// CatalogRequest is a submitted catalog item (or resource action) request.
type CatalogRequest struct {
	Type                     string             `json:"@type,omitempty"`
	ID                       string             `json:"id" jsonschema:"required"`
	RequestNumber            int                `json:"requestNumber,omitempty"`
	State                    string             `json:"state" jsonschema:"required"`
	StateName                string             `json:"stateName,omitempty"`
	Phase                    string             `json:"phase,omitempty"`
	ExecutionStatus          string             `json:"executionStatus,omitempty"`
	ApprovalStatus           string             `json:"approvalStatus,omitempty"`
	Description              string             `json:"description,omitempty"`
	Reasons                  string             `json:"reasons,omitempty"`
	RequestedFor             string             `json:"requestedFor,omitempty"`
	RequestedBy              string             `json:"requestedBy,omitempty"`
	RequestedItemName        string             `json:"requestedItemName,omitempty"`
	RequestedItemDescription string             `json:"requestedItemDescription,omitempty"`
	Organization             *Organization      `json:"organization,omitempty"`
	CatalogItemRef           *Ref               `json:"catalogItemRef,omitempty"`
	RequestCompletion        *RequestCompletion `json:"requestCompletion,omitempty"`
	DateCreated              *time.Time         `json:"dateCreated,omitempty"`
	DateSubmitted            *time.Time         `json:"dateSubmitted,omitempty"`
	DateCompleted            *time.Time         `json:"dateCompleted,omitempty"`
	LastUpdated              *time.Time         `json:"lastUpdated,omitempty"`
}

// Succeeded reports whether the request finished successfully.
func (r *CatalogRequest) Succeeded() bool {
	return r.State == StateSuccessful
}

// Failed reports whether the request reached a terminal failure state.
func (r *CatalogRequest) Failed() bool {
	switch r.State {
	case StateFailed, StateProviderFailed, StateRejected, StatePartiallySuccessful:
		return true
	}
	return false
}

// Done reports whether the request reached a terminal state.
func (r *CatalogRequest) Done() bool {
	return r.Succeeded() || r.Failed()
}

// Reservation allocates infrastructure capacity to a business group.
type Reservation struct {
	ID                  string         `json:"id" jsonschema:"required"`
	Name                string         `json:"name" jsonschema:"required"`
	ReservationTypeID   string         `json:"reservationTypeId,omitempty"`
	TenantID            string         `json:"tenantId,omitempty"`
	SubTenantID         string         `json:"subTenantId,omitempty"`
	Enabled             bool           `json:"enabled,omitempty"`
	Priority            int            `json:"priority,omitempty"`
	ReservationPolicyID string         `json:"reservationPolicyId,omitempty"`
	ExtensionData       *ExtensionData `json:"extensionData,omitempty"`
}

// ReservationInfo is a reservation summary including its allocation.
type ReservationInfo struct {
	ID                   string  `json:"id" jsonschema:"required"`
	Name                 string  `json:"name" jsonschema:"required"`
	ReservationTypeName  string  `json:"reservationTypeName,omitempty"`
	SubTenantName        string  `json:"subTenantName,omitempty"`
	Enabled              bool    `json:"enabled,omitempty"`
	Priority             int     `json:"priority,omitempty"`
	AllocationPercentage float64 `json:"allocationPercentage,omitempty"`
}

// Event is an event-broker event.
type Event struct {
	ID         string         `json:"id" jsonschema:"required"`
	TopicID    string         `json:"topicId,omitempty"`
	SourceType string         `json:"sourceType,omitempty"`
	SourceID   string         `json:"sourceId,omitempty"`
	UserName   string         `json:"userName,omitempty"`
	TenantID   string         `json:"tenantId,omitempty"`
	TimeStamp  any            `json:"timeStamp,omitempty"`
	Payload    *ExtensionData `json:"payload,omitempty"`
}
