package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const testToken = "MTQ5NDg0NzM0NjUxNzo2OGIwNTYxYjA2ZDJiOGJlMjU3Mzp0ZW5hbnQ6dnNwaGVyZS5sb2NhbA"

// fakeVRA is an in-process stand-in for a vRA appliance. Handlers are
// registered per test on mux; the login endpoint is always present and
// accepts admin/secret.
type fakeVRA struct {
	mux      *http.ServeMux
	server   *httptest.Server
	requests atomic.Int64

	lastLogin tokenRequest
	lastAuth  atomic.Value
}

func newFakeVRA(t *testing.T) *fakeVRA {
	t.Helper()

	f := &fakeVRA{mux: http.NewServeMux()}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		f.lastAuth.Store(r.Header.Get("Authorization"))
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)

	f.mux.HandleFunc("POST /identity/api/tokens", func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.lastLogin = req
		if req.Username != "admin" || req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"errors": []map[string]any{{"code": 90135, "message": "Authentication failed.", "systemMessage": "Invalid credentials"}},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":      testToken,
			"expires": "2026-10-19T08:00:00.000Z",
			"tenant":  req.Tenant,
		})
	})
	return f
}

func (f *fakeVRA) creds() Credentials {
	return Credentials{Username: "admin", Password: "secret", Host: f.server.URL}
}

func (f *fakeVRA) login(t *testing.T) *Session {
	t.Helper()
	s, err := Login(context.Background(), f.creds())
	require.NoError(t, err)
	return s
}

func (f *fakeVRA) authHeader() string {
	v, _ := f.lastAuth.Load().(string)
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// singlePage wraps items in a one-page collection.
func singlePage(items ...any) map[string]any {
	totalPages := 1
	if len(items) == 0 {
		totalPages = 0
	}
	return map[string]any{
		"links":   []any{},
		"content": append([]any{}, items...),
		"metadata": map[string]any{
			"size":          100,
			"totalElements": len(items),
			"totalPages":    totalPages,
			"number":        1,
			"offset":        0,
		},
	}
}

func catalogItemJSON(id, name string) map[string]any {
	return map[string]any{
		"@type": "ConsumerEntitledCatalogItem",
		"catalogItem": map[string]any{
			"@type":       "CatalogItem",
			"id":          id,
			"name":        name,
			"description": nil,
			"status":      "PUBLISHED",
			"requestable": true,
			"serviceRef":  map[string]any{"id": "svc-1", "label": "Linux"},
		},
		"entitledOrganizations": []any{
			map[string]any{"tenantRef": "vsphere.local", "subtenantRef": "bg-dev", "subtenantLabel": "Development"},
		},
	}
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
