package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const entitledItemsPath = "/catalog-service/api/consumer/entitledCatalogItems"

// CatalogFilter narrows entitled catalog item listings. All fields are optional.
type CatalogFilter struct {
	// ServiceID restricts the listing to one catalog service.
	ServiceID string
	// OnBehalfOf lists the items another user is entitled to.
	OnBehalfOf string
	// SubtenantID restricts the listing to one business group.
	SubtenantID string
}

func (f *CatalogFilter) query() url.Values {
	q := url.Values{}
	if f == nil {
		return q
	}
	if f.ServiceID != "" {
		q.Set("serviceId", f.ServiceID)
	}
	if f.OnBehalfOf != "" {
		q.Set("onBehalfOf", f.OnBehalfOf)
	}
	if f.SubtenantID != "" {
		q.Set("subtenantId", f.SubtenantID)
	}
	return q
}

// EntitledCatalogItems lists the catalog items the user is entitled to request.
// filter may be nil.
func (s *Session) EntitledCatalogItems(ctx context.Context, filter *CatalogFilter) ([]EntitledCatalogItem, error) {
	items, err := collect[EntitledCatalogItem](ctx, s, entitledItemsPath, filter.query())
	if err != nil {
		return nil, fmt.Errorf("listing entitled catalog items: %w", err)
	}
	return items, nil
}

// EntitledCatalogItemViews lists the entitled catalog items in their
// lightweight view form. filter may be nil.
func (s *Session) EntitledCatalogItemViews(ctx context.Context, filter *CatalogFilter) ([]EntitledCatalogItemView, error) {
	views, err := collect[EntitledCatalogItemView](ctx, s, "/catalog-service/api/consumer/entitledCatalogItemViews", filter.query())
	if err != nil {
		return nil, fmt.Errorf("listing entitled catalog item views: %w", err)
	}
	return views, nil
}

// FindCatalogItems returns the entitled items whose name contains name
// (case-insensitive). When catalog is nil the entitled items are fetched;
// otherwise the given list is searched. An empty result is not an error.
func (s *Session) FindCatalogItems(ctx context.Context, name string, catalog []EntitledCatalogItem) ([]EntitledCatalogItem, error) {
	if catalog == nil {
		var err error
		catalog, err = s.EntitledCatalogItems(ctx, nil)
		if err != nil {
			return nil, err
		}
	}
	return filterByName(catalog, name, EntitledCatalogItem.Name), nil
}

// CatalogItemByName resolves name to exactly one entitled catalog item.
// An exact (case-insensitive) name match wins over substring matches.
// It returns ErrNotFound when nothing matches and ErrAmbiguous when more than
// one item matches.
func (s *Session) CatalogItemByName(ctx context.Context, name string) (*EntitledCatalogItem, error) {
	catalog, err := s.EntitledCatalogItems(ctx, nil)
	if err != nil {
		return nil, err
	}
	item, err := pickOne(catalog, name, "catalog item", EntitledCatalogItem.Name)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CatalogItem retrieves an entitled catalog item by id.
func (s *Session) CatalogItem(ctx context.Context, id string) (*EntitledCatalogItem, error) {
	query := url.Values{}
	query.Set("$filter", odataEq("id", id))

	items, err := collect[EntitledCatalogItem](ctx, s, entitledItemsPath, query)
	if err != nil {
		return nil, fmt.Errorf("getting catalog item %q: %w", id, err)
	}
	for i := range items {
		if items[i].ID() == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("catalog item %q: %w", id, ErrNotFound)
}

// RequestTemplateURL returns the URL of the request template of an item.
func (s *Session) RequestTemplateURL(catalogItemID string) string {
	return s.baseURL + entitledItemsPath + "/" + url.PathEscape(catalogItemID) + "/requests/template"
}

// RequestURL returns the URL requests for an item are posted to.
func (s *Session) RequestURL(catalogItemID string) string {
	return s.baseURL + entitledItemsPath + "/" + url.PathEscape(catalogItemID) + "/requests"
}

// RequestTemplate retrieves the request template of an entitled catalog item.
// The template can be modified before being passed to RequestCatalogItem.
func (s *Session) RequestTemplate(ctx context.Context, catalogItemID string) (*RequestTemplate, error) {
	var tmpl RequestTemplate
	path := entitledItemsPath + "/" + url.PathEscape(catalogItemID) + "/requests/template"
	if err := s.Do(ctx, http.MethodGet, path, nil, nil, &tmpl); err != nil {
		return nil, fmt.Errorf("getting request template for %q: %w", catalogItemID, err)
	}
	return &tmpl, nil
}

// RequestCatalogItem submits a request for an entitled catalog item. When
// tmpl is nil the item's default request template is fetched and submitted.
func (s *Session) RequestCatalogItem(ctx context.Context, catalogItemID string, tmpl *RequestTemplate) (*CatalogRequest, error) {
	if tmpl == nil {
		var err error
		tmpl, err = s.RequestTemplate(ctx, catalogItemID)
		if err != nil {
			return nil, err
		}
	}

	var req CatalogRequest
	path := entitledItemsPath + "/" + url.PathEscape(catalogItemID) + "/requests"
	if err := s.Do(ctx, http.MethodPost, path, nil, tmpl, &req); err != nil {
		return nil, fmt.Errorf("requesting catalog item %q: %w", catalogItemID, err)
	}
	return &req, nil
}
