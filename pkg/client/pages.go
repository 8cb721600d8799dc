package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// collect walks a paginated collection from page 1 until the last page and
// returns the concatenated content.
func collect[T any](ctx context.Context, s *Session, path string, query url.Values) ([]T, error) {
	all := make([]T, 0)
	for page := 1; ; page++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(s.pageSize))

		var p Page[T]
		if err := s.Do(ctx, http.MethodGet, path, q, nil, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Content...)

		if page >= p.Metadata.TotalPages || p.Metadata.TotalElements == 0 {
			break
		}
	}
	return all, nil
}

// filterByName keeps the items whose name contains name, case-insensitively.
func filterByName[T any](items []T, name string, nameOf func(T) string) []T {
	needle := strings.ToLower(name)
	result := make([]T, 0)
	for _, item := range items {
		if strings.Contains(strings.ToLower(nameOf(item)), needle) {
			result = append(result, item)
		}
	}
	return result
}

// pickOne resolves a name lookup to a single item: an exact (case-insensitive)
// match wins, otherwise the only substring match.
func pickOne[T any](items []T, name, kind string, nameOf func(T) string) (T, error) {
	var zero T

	var exact []T
	for _, item := range items {
		if strings.EqualFold(nameOf(item), name) {
			exact = append(exact, item)
		}
	}
	switch len(exact) {
	case 1:
		return exact[0], nil
	case 0:
	default:
		return zero, fmt.Errorf("%s %q: %d exact matches: %w", kind, name, len(exact), ErrAmbiguous)
	}

	partial := filterByName(items, name, nameOf)
	switch len(partial) {
	case 0:
		return zero, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	case 1:
		return partial[0], nil
	default:
		return zero, fmt.Errorf("%s %q: %d matches: %w", kind, name, len(partial), ErrAmbiguous)
	}
}

// odataEq builds an OData equality filter expression.
func odataEq(field, value string) string {
	return fmt.Sprintf("%s eq '%s'", field, strings.ReplaceAll(value, "'", "''"))
}
