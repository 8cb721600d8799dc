package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateJSON = `{
	"type": "com.vmware.vcac.catalog.domain.request.CatalogItemProvisioningRequest",
	"catalogItemId": "ci-1",
	"requestedFor": "admin@vsphere.local",
	"businessGroupId": "bg-dev",
	"description": null,
	"reasons": null,
	"data": {
		"CentOS7": {"componentTypeId": "com.vmware.csp.component.cafe.composition", "data": {"cpu": 1, "memory": 1024}},
		"_leaseDays": null
	},
	"approvalRequired": false
}`

func TestRequestTemplate_PreservesUnknownFields(t *testing.T) {
	var tmpl RequestTemplate
	require.NoError(t, json.Unmarshal([]byte(templateJSON), &tmpl))

	assert.Equal(t, "ci-1", tmpl.CatalogItemID)
	assert.Nil(t, tmpl.Description)
	assert.Equal(t, map[string]any{"approvalRequired": false}, tmpl.Extra)

	tmpl.SetDescription("from go")
	out, err := json.Marshal(tmpl)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, false, m["approvalRequired"])
	assert.Equal(t, "from go", m["description"])
	assert.Nil(t, m["reasons"])
	assert.Contains(t, m, "reasons")
	assert.Equal(t, "bg-dev", m["businessGroupId"])
}

func TestRequestTemplateFromMap(t *testing.T) {
	var tmpl RequestTemplate
	require.NoError(t, json.Unmarshal([]byte(templateJSON), &tmpl))

	m, err := tmpl.ToMap()
	require.NoError(t, err)
	m["reasons"] = "capacity"

	back, err := RequestTemplateFromMap(m)
	require.NoError(t, err)
	require.NotNil(t, back.Reasons)
	assert.Equal(t, "capacity", *back.Reasons)
	assert.Equal(t, tmpl.Extra, back.Extra)
	assert.Equal(t, tmpl.Data, back.Data)
}

func TestRequestTemplateFromMap_MissingCatalogItemID(t *testing.T) {
	_, err := RequestTemplateFromMap(map[string]any{"data": map[string]any{}})
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "RequestTemplate", parseErr.Type)
	assert.NotEmpty(t, parseErr.Problems)
}

func TestRequestCatalogItem_FetchesTemplateWhenNil(t *testing.T) {
	f := newFakeVRA(t)
	f.mux.HandleFunc("GET /catalog-service/api/consumer/entitledCatalogItems/{id}/requests/template", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(templateJSON))
	})
	var posted map[string]any
	f.mux.HandleFunc("POST /catalog-service/api/consumer/entitledCatalogItems/{id}/requests", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ci-1", r.PathValue("id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		writeJSON(w, http.StatusCreated, map[string]any{
			"@type": "CatalogItemRequest",
			"id":    "req-1",
			"state": StateSubmitted,
			"phase": "PENDING_PRE_APPROVAL",
		})
	})

	s := f.login(t)
	req, err := s.RequestCatalogItem(context.Background(), "ci-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "req-1", req.ID)
	assert.Equal(t, StateSubmitted, req.State)
	assert.False(t, req.Done())
	assert.Equal(t, false, posted["approvalRequired"])
	assert.Equal(t, "ci-1", posted["catalogItemId"])
}

func TestRequestTemplateURLs(t *testing.T) {
	s, err := NewSession(Credentials{Host: "vra-01a.corp.local"}, testToken)
	require.NoError(t, err)

	assert.Equal(t, "https://vra-01a.corp.local/catalog-service/api/consumer/entitledCatalogItems/ci-1/requests/template", s.RequestTemplateURL("ci-1"))
	assert.Equal(t, "https://vra-01a.corp.local/catalog-service/api/consumer/entitledCatalogItems/ci-1/requests", s.RequestURL("ci-1"))
}
