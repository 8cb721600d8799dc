package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func (s *Session) subtenantsPath() string {
	return "/identity/api/tenants/" + url.PathEscape(s.tenant) + "/subtenants"
}

// BusinessGroups lists all business groups of the session tenant.
func (s *Session) BusinessGroups(ctx context.Context) ([]BusinessGroup, error) {
	groups, err := collect[BusinessGroup](ctx, s, s.subtenantsPath(), nil)
	if err != nil {
		return nil, fmt.Errorf("listing business groups: %w", err)
	}
	return groups, nil
}

// BusinessGroupsByUser lists the business groups a principal belongs to.
// role optionally filters by one of the Role* constants; expandGroups also
// considers the SSO groups the principal is a member of.
func (s *Session) BusinessGroupsByUser(ctx context.Context, principal, role string, expandGroups bool) ([]BusinessGroup, error) {
	path := "/identity/api/tenants/" + url.PathEscape(s.tenant) +
		"/principals/" + url.PathEscape(principal) + "/subtenants"

	query := url.Values{}
	if role != "" {
		query.Set("role", role)
	}
	if expandGroups {
		query.Set("expandGroups", "true")
	}

	groups, err := collect[BusinessGroup](ctx, s, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing business groups for %q: %w", principal, err)
	}
	return groups, nil
}

// BusinessGroupsByName returns the business groups whose name contains name
// (case-insensitive). An empty result is not an error.
func (s *Session) BusinessGroupsByName(ctx context.Context, name string) ([]BusinessGroup, error) {
	groups, err := s.BusinessGroups(ctx)
	if err != nil {
		return nil, err
	}
	return filterByName(groups, name, func(g BusinessGroup) string { return g.Name }), nil
}

// BusinessGroupByName resolves name to exactly one business group.
func (s *Session) BusinessGroupByName(ctx context.Context, name string) (*BusinessGroup, error) {
	groups, err := s.BusinessGroups(ctx)
	if err != nil {
		return nil, err
	}
	g, err := pickOne(groups, name, "business group", func(g BusinessGroup) string { return g.Name })
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// BusinessGroup retrieves a business group by id.
func (s *Session) BusinessGroup(ctx context.Context, id string) (*BusinessGroup, error) {
	var group BusinessGroup
	if err := s.Do(ctx, http.MethodGet, s.subtenantsPath()+"/"+url.PathEscape(id), nil, nil, &group); err != nil {
		return nil, fmt.Errorf("getting business group %q: %w", id, err)
	}
	return &group, nil
}

// DeleteBusinessGroup deletes a business group. vRA refuses when objects are
// still attached to it.
func (s *Session) DeleteBusinessGroup(ctx context.Context, id string) error {
	if err := s.Do(ctx, http.MethodDelete, s.subtenantsPath()+"/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting business group %q: %w", id, err)
	}
	return nil
}
