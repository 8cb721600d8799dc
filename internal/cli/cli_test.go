package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/vra-mcp/internal/config"
	"github.com/usestring/vra-mcp/internal/logging"
	"github.com/usestring/vra-mcp/internal/prompt"
	"github.com/usestring/vra-mcp/pkg/client"
)

const testToken = "dGVzdC10b2tlbg"

// fakeVRA serves the handful of endpoints the commands call.
type fakeVRA struct {
	mux    *http.ServeMux
	server *httptest.Server

	mu     sync.Mutex
	posted map[string]map[string]any
}

func newFakeVRA(t *testing.T) *fakeVRA {
	t.Helper()

	f := &fakeVRA{mux: http.NewServeMux(), posted: make(map[string]map[string]any)}
	f.server = httptest.NewServer(f.mux)
	t.Cleanup(f.server.Close)

	f.mux.HandleFunc("POST /identity/api/tokens", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["username"] != "admin" || req["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"errors": []any{map[string]any{"message": "Authentication failed."}},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": testToken, "tenant": req["tenant"]})
	})
	f.mux.HandleFunc("GET /identity/api/tenants/vsphere.local/subtenants", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, page(
			map[string]any{"id": "bg-dev", "name": "Development", "description": "Dev team"},
			map[string]any{"id": "bg-ops", "name": "Operations"},
		))
	})
	f.mux.HandleFunc("GET /catalog-service/api/consumer/entitledCatalogItems", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, page(
			catalogItem("ci-centos", "CentOS 7", "bg-dev"),
			catalogItem("ci-win", "Windows 2019", "bg-ops"),
		))
	})
	f.mux.HandleFunc("GET /catalog-service/api/consumer/entitledCatalogItems/{id}/requests/template", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"type":            "com.vmware.vcac.catalog.domain.request.CatalogItemProvisioningRequest",
			"catalogItemId":   r.PathValue("id"),
			"requestedFor":    "admin@corp.local",
			"businessGroupId": "",
			"description":     nil,
			"reasons":         nil,
			"data": map[string]any{
				"cpu":    1,
				"memory": 1024,
			},
		})
	})
	return f
}

// record stores a decoded POST body under its path.
func (f *fakeVRA) record(r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.posted[r.URL.Path] = body
	f.mu.Unlock()
}

func (f *fakeVRA) body(path string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posted[path]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func page(items ...any) map[string]any {
	totalPages := 1
	if len(items) == 0 {
		totalPages = 0
	}
	return map[string]any{
		"content": items,
		"metadata": map[string]any{
			"size":          len(items),
			"totalElements": len(items),
			"totalPages":    totalPages,
			"number":        1,
		},
	}
}

func catalogItem(id, name, group string) map[string]any {
	return map[string]any{
		"catalogItem": map[string]any{
			"id":         id,
			"name":       name,
			"status":     "PUBLISHED",
			"serviceRef": map[string]any{"id": "svc-1", "label": "Infrastructure"},
		},
		"entitledOrganizations": []any{
			map[string]any{"tenantRef": "vsphere.local", "subtenantRef": group},
		},
	}
}

type testApp struct {
	app    *App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(f *fakeVRA, p prompt.Prompter) *testApp {
	cfg := &config.Config{
		Host:                f.server.URL,
		Tenant:              client.DefaultTenant,
		Username:            "admin",
		Password:            "secret",
		PageSize:            100,
		RequestPollInterval: 10 * time.Millisecond,
		RequestWaitTimeout:  5 * time.Second,
		LogLevel:            "warn",
	}
	if p == nil {
		p = prompt.Static{}
	}
	var stdout, stderr bytes.Buffer
	return &testApp{
		app:    NewApp(cfg, p, &stdout, &stderr),
		stdout: &stdout,
		stderr: &stderr,
	}
}

func (ta *testApp) run(args ...string) error {
	return ta.app.Run(context.Background(), args)
}

func TestBusinessGroups_Table(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, nil)

	require.NoError(t, ta.run("business-groups"))
	out := ta.stdout.String()
	assert.Contains(t, out, "Development")
	assert.Contains(t, out, "bg-ops")
	assert.Contains(t, out, "DESCRIPTION")
}

func TestRun_ReleasesLoggingOnFailure(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, nil)
	closed := 0
	ta.app.setupLogging = func(logging.Config) (func() error, error) {
		return func() error {
			closed++
			return nil
		}, nil
	}

	err := ta.run("business-groups", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
	assert.Equal(t, 1, closed)

	require.NoError(t, ta.run("business-groups"))
	assert.Equal(t, 2, closed)
}

func TestBusinessGroups_Query(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, nil)

	require.NoError(t, ta.run("business-groups", "--name", "dev", "-o", "json", "-q", ".[].id"))

	var ids []string
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &ids))
	assert.Equal(t, []string{"bg-dev"}, ids)
}

func TestCatalog_NameFilter(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, nil)

	require.NoError(t, ta.run("catalog", "--name", "cent"))
	out := ta.stdout.String()
	assert.Contains(t, out, "CentOS 7")
	assert.NotContains(t, out, "Windows")
}

func TestCatalog_NoMatch(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, nil)

	require.NoError(t, ta.run("catalog", "--name", "solaris"))
	assert.Equal(t, "No results.\n", ta.stdout.String())
}

func TestCatalogTemplate(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, nil)

	require.NoError(t, ta.run("catalog", "template", "centos", "-o", "json"))

	var tmpl map[string]any
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &tmpl))
	assert.Equal(t, "ci-centos", tmpl["catalogItemId"])
	assert.Contains(t, tmpl, "data")
}

func TestCatalogTemplate_UnknownItem(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, nil)

	err := ta.run("catalog", "template", "solaris")
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestPromptsForMissingCredentials(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, prompt.Static{Username: "admin", Secret: "secret"})
	ta.app.cfg.Username = ""
	ta.app.cfg.Password = ""

	require.NoError(t, ta.run("business-groups"))
	assert.Equal(t, "admin", ta.app.cfg.Username)
}

func TestMissingCredentialsWithoutTerminal(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, nil)
	ta.app.cfg.Password = ""

	err := ta.run("business-groups")
	assert.ErrorIs(t, err, prompt.ErrNotInteractive)
}

func TestInvalidCredentials(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, nil)
	ta.app.cfg.Password = "wrong"

	err := ta.run("business-groups")
	var authErr *client.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
}

func TestFlagsOverrideConfig(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, nil)
	ta.app.cfg.Host = "vra.invalid"

	require.NoError(t, ta.run("business-groups", "--server", f.server.URL))
	assert.Equal(t, f.server.URL, ta.app.cfg.Host)
}

func TestRequestItem_DryRunWithParams(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, nil)

	params := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(params, []byte("data:\n  cpu: 4\n  disks: 2\nowner: nobody\n"), 0o600))

	require.NoError(t, ta.run(
		"request-item", "-b", "Development", "-c", "centos", "-r", "load test",
		"-d", "perf env", "-p", params, "--dry-run", "-o", "json",
	))

	var body map[string]any
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &body))
	assert.Equal(t, "bg-dev", body["businessGroupId"])
	assert.Equal(t, "load test", body["reasons"])
	assert.Equal(t, "perf env", body["description"])
	assert.Equal(t, "admin@corp.local", body["requestedFor"])

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(4), data["cpu"])
	assert.Equal(t, float64(1024), data["memory"])
	assert.NotContains(t, data, "disks")
	assert.NotContains(t, body, "owner")

	assert.Contains(t, ta.stderr.String(), "data.disks")
	assert.Nil(t, f.body("/catalog-service/api/consumer/entitledCatalogItems/ci-centos/requests"))
}

func serveRequest(f *fakeVRA, finalState string) {
	f.mux.HandleFunc("POST /catalog-service/api/consumer/entitledCatalogItems/{id}/requests", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusCreated, map[string]any{
			"id":            "req-1",
			"requestNumber": 42,
			"state":         client.StateSubmitted,
			"phase":         "PENDING_PRE_APPROVAL",
		})
	})

	var mu sync.Mutex
	polls := 0
	f.mux.HandleFunc("GET /catalog-service/api/consumer/requests/req-1", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		polls++
		n := polls
		mu.Unlock()

		state, phase := client.StateInProgress, "RUNNING"
		if n > 1 {
			state, phase = finalState, "FINISHED"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":                "req-1",
			"requestNumber":     42,
			"state":             state,
			"phase":             phase,
			"requestedItemName": "CentOS 7",
			"requestCompletion": map[string]any{"completionDetails": "Request " + state},
		})
	})
}

func TestRequestItem_Wait(t *testing.T) {
	f := newFakeVRA(t)
	serveRequest(f, client.StateSuccessful)
	ta := newTestApp(f, nil)

	require.NoError(t, ta.run(
		"request-item", "-b", "Development", "-c", "centos", "-r", "load test", "--interval", "10ms",
	))

	body := f.body("/catalog-service/api/consumer/entitledCatalogItems/ci-centos/requests")
	require.NotNil(t, body)
	assert.Equal(t, "bg-dev", body["businessGroupId"])
	assert.Equal(t, "load test", body["reasons"])

	assert.Contains(t, ta.stdout.String(), client.StateSuccessful)
	assert.Contains(t, ta.stderr.String(), "submitted request 42")
	assert.Contains(t, ta.stderr.String(), "IN_PROGRESS")
}

func TestRequestItem_Failed(t *testing.T) {
	f := newFakeVRA(t)
	serveRequest(f, client.StateFailed)
	ta := newTestApp(f, nil)

	err := ta.run("request-item", "-b", "Development", "-c", "centos", "-r", "load test", "--interval", "10ms")
	var failed *client.RequestFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, client.StateFailed, failed.Request.State)
	assert.Contains(t, ta.stdout.String(), "Request FAILED")
}

func TestRequestItem_RequiredFlags(t *testing.T) {
	f := newFakeVRA(t)
	ta := newTestApp(f, nil)

	err := ta.run("request-item", "-b", "Development")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog-item")
}

func TestRequests_Show(t *testing.T) {
	f := newFakeVRA(t)
	serveRequest(f, client.StateSuccessful)
	ta := newTestApp(f, nil)

	require.NoError(t, ta.run("requests", "req-1"))
	out := ta.stdout.String()
	assert.Contains(t, out, "req-1")
	assert.Contains(t, out, client.StateInProgress)
}

func serveDeployment(f *fakeVRA) {
	resources := map[string]map[string]any{
		"dep-1": {
			"id":              "dep-1",
			"name":            "CentOS-2391",
			"status":          "ACTIVE",
			"resourceTypeRef": map[string]any{"id": client.ResourceTypeDeployment},
			"hasChildren":     true,
		},
		"vm-1": {
			"id":              "vm-1",
			"name":            "dev-0042",
			"status":          "ON",
			"resourceTypeRef": map[string]any{"id": client.ResourceTypeVirtual},
			"operations": []any{
				map[string]any{"id": "op-off", "name": client.OperationPowerOff},
			},
		},
	}

	f.mux.HandleFunc("GET /catalog-service/api/consumer/resources", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, page(resources["dep-1"], resources["vm-1"]))
	})
	f.mux.HandleFunc("GET /catalog-service/api/consumer/resources/{id}", func(w http.ResponseWriter, r *http.Request) {
		res, ok := resources[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"errors": []any{map[string]any{"message": "not found"}}})
			return
		}
		writeJSON(w, http.StatusOK, res)
	})
	f.mux.HandleFunc("GET /catalog-service/api/consumer/resourceViews", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("$filter") != "parentResource eq 'dep-1'" {
			writeJSON(w, http.StatusOK, page())
			return
		}
		writeJSON(w, http.StatusOK, page(
			map[string]any{"resourceId": "vm-1", "name": "dev-0042", "resourceType": client.ResourceTypeVirtual},
		))
	})
	f.mux.HandleFunc("GET /catalog-service/api/consumer/resources/{id}/actions/{op}/requests/template", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"resourceId": r.PathValue("id"),
			"actionId":   r.PathValue("op"),
			"data":       map[string]any{},
		})
	})
	f.mux.HandleFunc("POST /catalog-service/api/consumer/resources/{id}/actions/{op}/requests", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.WriteHeader(http.StatusCreated)
	})
}

func TestResourcesShow_Tree(t *testing.T) {
	f := newFakeVRA(t)
	serveDeployment(f)
	ta := newTestApp(f, nil)

	require.NoError(t, ta.run("resources", "show", "CentOS"))
	out := ta.stdout.String()
	assert.Contains(t, out, "CentOS-2391 [deployment] dep-1 (ACTIVE)")
	assert.Contains(t, out, "  dev-0042 [virtual_machine] vm-1 (ON)")
	assert.Contains(t, out, "operations: Power Off")
}

func TestResourcesShow_JSON(t *testing.T) {
	f := newFakeVRA(t)
	serveDeployment(f)
	ta := newTestApp(f, nil)

	require.NoError(t, ta.run("resources", "show", "CentOS", "-o", "json", "-q", ".children[0].kind"))
	var kinds []string
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &kinds))
	assert.Equal(t, []string{"virtual_machine"}, kinds)
}

func TestPowerOff_Deployment(t *testing.T) {
	f := newFakeVRA(t)
	serveDeployment(f)
	ta := newTestApp(f, nil)

	require.NoError(t, ta.run("resources", "power-off", "CentOS-2391"))
	body := f.body("/catalog-service/api/consumer/resources/vm-1/actions/op-off/requests")
	require.NotNil(t, body)
	assert.Equal(t, "op-off", body["actionId"])
	assert.Contains(t, ta.stderr.String(), "power-off submitted for dev-0042")
}

func TestPowerOn_MissingOperation(t *testing.T) {
	f := newFakeVRA(t)
	serveDeployment(f)
	ta := newTestApp(f, nil)

	err := ta.run("resources", "power-on", "dev-0042")
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestReport(t *testing.T) {
	f := newFakeVRA(t)
	serveDeployment(f)
	f.mux.HandleFunc("GET /catalog-service/api/consumer/requests", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, page(
			map[string]any{"id": "req-1", "state": client.StateSuccessful},
			map[string]any{"id": "req-2", "state": client.StateSuccessful},
			map[string]any{"id": "req-3", "state": client.StateFailed},
		))
	})
	ta := newTestApp(f, nil)

	require.NoError(t, ta.run("report", "-o", "json"))

	var sum summary
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &sum))
	assert.Equal(t, 2, sum.BusinessGroups)
	assert.Equal(t, 2, sum.CatalogItems)
	assert.Equal(t, 2, sum.Resources)
	assert.Equal(t, map[string]int{"ACTIVE": 1, "ON": 1}, sum.ResourcesByStatus)
	assert.Equal(t, 3, sum.Requests)
	assert.Equal(t, map[string]int{"SUCCESSFUL": 2, "FAILED": 1}, sum.RequestsByState)
}

func TestReport_Table(t *testing.T) {
	out := summary{
		Host:            "vra-01a.corp.local",
		Tenant:          "vsphere.local",
		Requests:        3,
		RequestsByState: map[string]int{"SUCCESSFUL": 2, "FAILED": 1},
	}.String()
	assert.Contains(t, out, "3 (FAILED=1, SUCCESSFUL=2)")
	assert.Contains(t, out, "vra-01a.corp.local")
}

func TestExecute_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"frobnicate"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "error: unknown command")
}
