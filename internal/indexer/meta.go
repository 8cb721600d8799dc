// Package indexer keeps an in-memory index of the provisioned resources of a
// vRA tenant, answering filtered listings without a round trip per call.
package indexer

import (
	"strings"

	"github.com/usestring/vra-mcp/pkg/client"
)

// ResourceMeta holds the searchable fields of one provisioned resource.
// Keys are lowercased.
type ResourceMeta struct {
	DocID     uint32
	ID        string
	NameLower string
	Type      string
	Status    string
	Owners    []string

	// Business group and catalog item are indexed by both id and label.
	BusinessGroups []string
	CatalogItems   []string
	Parent         string
}

// FromResource extracts the searchable fields of a resource.
func FromResource(r *client.ConsumerResource) *ResourceMeta {
	meta := &ResourceMeta{
		ID:        r.ID,
		NameLower: strings.ToLower(r.Name),
		Type:      strings.ToLower(r.TypeID()),
		Status:    strings.ToLower(r.Status),
	}
	for _, o := range r.Owners {
		if o.Ref != "" {
			meta.Owners = append(meta.Owners, strings.ToLower(o.Ref))
		}
	}
	if r.Organization != nil {
		meta.BusinessGroups = keys(r.Organization.SubtenantRef, r.Organization.SubtenantLabel)
	}
	if r.CatalogItem != nil {
		meta.CatalogItems = keys(r.CatalogItem.ID, r.CatalogItem.Label)
	}
	if r.ParentResourceRef != nil {
		meta.Parent = strings.ToLower(r.ParentResourceRef.ID)
	}
	return meta
}

func keys(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, strings.ToLower(v))
		}
	}
	return out
}
