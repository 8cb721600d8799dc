package indexer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/vra-mcp/internal/config"
	"github.com/usestring/vra-mcp/pkg/client"
)

type fakeLister struct {
	calls     atomic.Int64
	resources []client.ConsumerResource
	err       error
	// during runs while a listing is in flight.
	during func()
}

func (f *fakeLister) ProvisionedItems(ctx context.Context) ([]client.ConsumerResource, error) {
	f.calls.Add(1)
	if f.during != nil {
		f.during()
	}
	return f.resources, f.err
}

func resource(id, name, typeID, status, owner, group string) client.ConsumerResource {
	return client.ConsumerResource{
		ID:              id,
		Name:            name,
		ResourceTypeRef: &client.Ref{ID: typeID},
		Status:          status,
		Owners:          []client.Owner{{Ref: owner}},
		Organization:    &client.Organization{SubtenantRef: "bg-" + group, SubtenantLabel: group},
	}
}

func testResources() []client.ConsumerResource {
	vm := resource("vm-1", "dev-web-0001", client.ResourceTypeVirtual, "ON", "jdoe@corp.local", "Development")
	vm.ParentResourceRef = &client.Ref{ID: "dep-1"}
	return []client.ConsumerResource{
		resource("dep-1", "CentOS-2391", client.ResourceTypeDeployment, "ACTIVE", "jdoe@corp.local", "Development"),
		vm,
		resource("vm-2", "dev-db-0002", client.ResourceTypeVirtual, "OFF", "asmith@corp.local", "Development"),
		resource("vm-3", "ops-web-0003", client.ResourceTypeVirtual, "ON", "asmith@corp.local", "Operations"),
	}
}

func ids(resources []client.ConsumerResource) []string {
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.ID)
	}
	return out
}

func loaded(t *testing.T) (*Indexer, *fakeLister) {
	t.Helper()
	l := &fakeLister{resources: testResources()}
	idx := New(l, &config.Config{ResourceIndexTTL: time.Minute})
	require.NoError(t, idx.Refresh(context.Background()))
	return idx, l
}

func TestSearch(t *testing.T) {
	idx, _ := loaded(t)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"dep-1", "vm-1", "vm-2", "vm-3"}},
		{"type", Filter{Type: "infrastructure.virtual"}, []string{"vm-1", "vm-2", "vm-3"}},
		{"type and status", Filter{Type: client.ResourceTypeVirtual, Status: "on"}, []string{"vm-1", "vm-3"}},
		{"owner", Filter{Owner: "ASmith@corp.local"}, []string{"vm-2", "vm-3"}},
		{"group by label", Filter{BusinessGroup: "operations"}, []string{"vm-3"}},
		{"group by id", Filter{BusinessGroup: "bg-Development", Status: "off"}, []string{"vm-2"}},
		{"query tokens", Filter{Query: "web dev"}, []string{"vm-1"}},
		{"name substring", Filter{Name: "WEB-00"}, []string{"vm-1", "vm-3"}},
		{"parent", Filter{ParentID: "dep-1"}, []string{"vm-1"}},
		{"parent ignores case", Filter{ParentID: "DEP-1"}, []string{"vm-1"}},
		{"query on name run", Filter{Query: "centos"}, []string{"dep-1"}},
		{"unknown key", Filter{Status: "DELETED"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(idx.Search(tt.filter)))
		})
	}
}

func TestGetAndCounts(t *testing.T) {
	idx, _ := loaded(t)

	r, ok := idx.Get("vm-2")
	require.True(t, ok)
	assert.Equal(t, "dev-db-0002", r.Name)

	_, ok = idx.Get("vm-9")
	assert.False(t, ok)

	assert.Equal(t, 4, idx.DocCount())
	assert.Equal(t, map[string]int{"active": 1, "on": 2, "off": 1}, idx.Counts())
}

func TestRefreshIfStale(t *testing.T) {
	idx, l := loaded(t)
	ctx := context.Background()

	require.NoError(t, idx.RefreshIfStale(ctx))
	assert.Equal(t, int64(1), l.calls.Load())

	idx.Invalidate()
	require.NoError(t, idx.RefreshIfStale(ctx))
	assert.Equal(t, int64(2), l.calls.Load())
	assert.False(t, idx.LastSync().IsZero())
}

func TestRefresh_InvalidateDuringReloadKeepsStale(t *testing.T) {
	l := &fakeLister{resources: testResources()}
	idx := New(l, &config.Config{ResourceIndexTTL: time.Minute})
	ctx := context.Background()

	l.during = func() {
		l.during = nil
		idx.Invalidate()
	}
	require.NoError(t, idx.Refresh(ctx))
	assert.Equal(t, int64(1), l.calls.Load())

	// The listing may predate the submission behind the invalidation.
	require.NoError(t, idx.RefreshIfStale(ctx))
	assert.Equal(t, int64(2), l.calls.Load())

	require.NoError(t, idx.RefreshIfStale(ctx))
	assert.Equal(t, int64(2), l.calls.Load())
}

func TestRefresh_FailureKeepsContent(t *testing.T) {
	idx, l := loaded(t)

	l.err = errors.New("boom")
	err := idx.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 4, idx.DocCount())
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"dashed", "dev-web-0001", []string{"dev", "web", "0001"}},
		{"spaces", "CentOS 2391", []string{"centos", "2391"}},
		{"fqdn with numbered host", "web01.corp.local", []string{"web01", "web", "01", "corp", "local"}},
		{"parenthesized label", "Windows 2016 (Prod)", []string{"windows", "2016", "prod"}},
		{"one digit suffix", "vm_7", []string{"vm", "7"}},
		{"duplicates", "dev-dev01", []string{"dev", "dev01", "01"}},
		{"single letters", "a-b", []string{}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}
