package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const (
	resourcesPath     = "/catalog-service/api/consumer/resources"
	resourceViewsPath = "/catalog-service/api/consumer/resourceViews"
)

// ProvisionedItems lists all resources provisioned for the user.
func (s *Session) ProvisionedItems(ctx context.Context) ([]ConsumerResource, error) {
	items, err := collect[ConsumerResource](ctx, s, resourcesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("listing provisioned items: %w", err)
	}
	return items, nil
}

// ProvisionedItemsByName returns the provisioned items whose name contains
// name (case-insensitive).
func (s *Session) ProvisionedItemsByName(ctx context.Context, name string) ([]ConsumerResource, error) {
	items, err := s.ProvisionedItems(ctx)
	if err != nil {
		return nil, err
	}
	return filterByName(items, name, func(r ConsumerResource) string { return r.Name }), nil
}

// ProvisionedItemByName resolves name to exactly one provisioned item, with
// the same matching rules as CatalogItemByName.
func (s *Session) ProvisionedItemByName(ctx context.Context, name string) (*ConsumerResource, error) {
	items, err := s.ProvisionedItems(ctx)
	if err != nil {
		return nil, err
	}
	item, err := pickOne(items, name, "provisioned item", func(r ConsumerResource) string { return r.Name })
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ProvisionedItem retrieves a provisioned resource by id.
func (s *Session) ProvisionedItem(ctx context.Context, id string) (*ConsumerResource, error) {
	var res ConsumerResource
	if err := s.Do(ctx, http.MethodGet, resourcesPath+"/"+url.PathEscape(id), nil, nil, &res); err != nil {
		return nil, fmt.Errorf("getting provisioned item %q: %w", id, err)
	}
	return &res, nil
}

func resourceViewQuery() url.Values {
	q := url.Values{}
	q.Set("managedOnly", "false")
	q.Set("withExtendedData", "true")
	q.Set("withOperations", "true")
	return q
}

// ResourceView retrieves the extended view of a provisioned resource.
func (s *Session) ResourceView(ctx context.Context, id string) (*ResourceView, error) {
	var view ResourceView
	if err := s.Do(ctx, http.MethodGet, resourceViewsPath+"/"+url.PathEscape(id), resourceViewQuery(), nil, &view); err != nil {
		return nil, fmt.Errorf("getting resource view %q: %w", id, err)
	}
	return &view, nil
}

// ChildResourceViews lists the views of the direct children of a resource.
func (s *Session) ChildResourceViews(ctx context.Context, parentID string) ([]ResourceView, error) {
	q := resourceViewQuery()
	q.Set("$filter", odataEq("parentResource", parentID))

	views, err := collect[ResourceView](ctx, s, resourceViewsPath, q)
	if err != nil {
		return nil, fmt.Errorf("listing children of %q: %w", parentID, err)
	}
	return views, nil
}
