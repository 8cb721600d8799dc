package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"VRA_HOST", "VRA_TENANT", "VRA_SSL_VERIFY", "VRA_PAGE_SIZE", "REQUEST_POLL_INTERVAL_MS", "HTTP_CLIENT_TIMEOUT_MS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "vsphere.local", cfg.Tenant)
	assert.True(t, cfg.SSLVerify)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.RequestPollInterval)
	assert.Equal(t, 30*time.Second, cfg.HTTPClientTimeout)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("VRA_HOST", "vra-01a.corp.local")
	t.Setenv("VRA_TENANT", "corp")
	t.Setenv("VRA_SSL_VERIFY", "false")
	t.Setenv("VRA_PAGE_SIZE", "25")
	t.Setenv("HTTP_CLIENT_TIMEOUT_MS", "1500")
	t.Setenv("TEMPLATE_CACHE_MAX_ITEMS", "not-a-number")
	t.Setenv("RESOURCE_INDEX_REFRESH_INTERVAL_MS", "0")

	cfg := Load()
	assert.Equal(t, "vra-01a.corp.local", cfg.Host)
	assert.Equal(t, "corp", cfg.Tenant)
	assert.False(t, cfg.SSLVerify)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 1500*time.Millisecond, cfg.HTTPClientTimeout)
	assert.Equal(t, 128, cfg.TemplateCacheMaxItems)
	assert.Zero(t, cfg.ResourceIndexRefreshInterval)
	assert.Equal(t, 30*time.Second, cfg.ResourceIndexTTL)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfile_TopLevel(t *testing.T) {
	path := writeFile(t, `
host: vra-01a.corp.local
username: cloudadmin@corp.local
ssl_verify: false
timeout: 45s
`)
	p, err := LoadProfile(path, "")
	require.NoError(t, err)
	assert.Equal(t, "vra-01a.corp.local", p.Host)
	require.NotNil(t, p.SSLVerify)
	assert.False(t, *p.SSLVerify)
	assert.Equal(t, Duration(45*time.Second), p.Timeout)
}

func TestLoadProfile_Named(t *testing.T) {
	path := writeFile(t, `
default: lab
profiles:
  lab:
    host: vra-lab.corp.local
    tenant: lab
  prod:
    host: vra-prod.corp.local
`)
	p, err := LoadProfile(path, "")
	require.NoError(t, err)
	assert.Equal(t, "vra-lab.corp.local", p.Host)
	assert.Equal(t, "lab", p.Tenant)

	p, err = LoadProfile(path, "prod")
	require.NoError(t, err)
	assert.Equal(t, "vra-prod.corp.local", p.Host)

	_, err = LoadProfile(path, "staging")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestLoadProfile_InvalidDuration(t *testing.T) {
	path := writeFile(t, "timeout: soon\n")
	_, err := LoadProfile(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestConfig_Apply(t *testing.T) {
	cfg := &Config{Host: "env-host", Tenant: "vsphere.local", SSLVerify: true, PageSize: 100}
	verify := false
	cfg.Apply(&Profile{Host: "file-host", SSLVerify: &verify, Timeout: Duration(time.Minute)})

	assert.Equal(t, "file-host", cfg.Host)
	assert.Equal(t, "vsphere.local", cfg.Tenant)
	assert.False(t, cfg.SSLVerify)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, time.Minute, cfg.HTTPClientTimeout)

	cfg.Apply(nil)
	assert.Equal(t, "file-host", cfg.Host)
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host is required")
	assert.Contains(t, err.Error(), "password is required")

	cfg = &Config{Host: "h", Username: "u", Password: "p"}
	assert.NoError(t, cfg.Validate())
}

func TestConfig_ClampLimit(t *testing.T) {
	cfg := &Config{DefaultListLimit: 50, MaxListLimit: 200}
	assert.Equal(t, 50, cfg.ClampLimit(0))
	assert.Equal(t, 10, cfg.ClampLimit(10))
	assert.Equal(t, 200, cfg.ClampLimit(5000))
}

func TestConfig_Credentials(t *testing.T) {
	cfg := &Config{Host: "h", Tenant: "t", Username: "u", Password: "p", SSLVerify: true}
	creds := cfg.Credentials()
	assert.Equal(t, "h", creds.Host)
	assert.Equal(t, "t", creds.Tenant)
	assert.True(t, creds.SSLVerify)
	assert.Len(t, cfg.ClientOptions("vra/1.0"), 3)
}
