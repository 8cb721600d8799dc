// Package config provides configuration loading from environment variables
// and YAML profile files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/usestring/vra-mcp/pkg/client"
)

// Tool output limit defaults
const (
	DefaultListLimitValue = 50
	MaxListLimitValue     = 1000
)

// Config holds all configuration shared by the CLI and the MCP server.
type Config struct {
	Host      string // VRA_HOST
	Tenant    string // VRA_TENANT, default "vsphere.local"
	Username  string // VRA_USERNAME
	Password  string // VRA_PASSWORD
	SSLVerify bool   // VRA_SSL_VERIFY, default true
	PageSize  int    // VRA_PAGE_SIZE, default 100

	HTTPClientTimeout     time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 30000ms (30s)
	TemplateCacheMaxItems int           // TEMPLATE_CACHE_MAX_ITEMS, default 128
	RequestPollInterval   time.Duration // REQUEST_POLL_INTERVAL_MS, default 5000ms (5s)
	RequestWaitTimeout    time.Duration // REQUEST_WAIT_TIMEOUT_MS, default 1800000ms (30m)

	// Provisioned resource index (MCP server)
	ResourceIndexTTL             time.Duration // RESOURCE_INDEX_TTL_MS, default 30000ms (30s)
	ResourceIndexRefreshInterval time.Duration // RESOURCE_INDEX_REFRESH_INTERVAL_MS, default 300000ms (5m), 0 disables
	ResourceIndexRefreshTimeout  time.Duration // RESOURCE_INDEX_REFRESH_TIMEOUT_MS, default 120000ms (2m)

	// Tool output limits
	DefaultListLimit int // DEFAULT_LIST_LIMIT
	MaxListLimit     int // MAX_LIST_LIMIT

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, "text" or "json", default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Host:      getEnvString("VRA_HOST", ""),
		Tenant:    getEnvString("VRA_TENANT", client.DefaultTenant),
		Username:  getEnvString("VRA_USERNAME", ""),
		Password:  getEnvString("VRA_PASSWORD", ""),
		SSLVerify: getEnvBool("VRA_SSL_VERIFY", true),
		PageSize:  getEnvInt("VRA_PAGE_SIZE", client.DefaultPageSize),

		HTTPClientTimeout:     getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 30000),
		TemplateCacheMaxItems: getEnvInt("TEMPLATE_CACHE_MAX_ITEMS", 128),
		RequestPollInterval:   getEnvDurationMs("REQUEST_POLL_INTERVAL_MS", 5000),
		RequestWaitTimeout:    getEnvDurationMs("REQUEST_WAIT_TIMEOUT_MS", 1_800_000),

		ResourceIndexTTL:             getEnvDurationMs("RESOURCE_INDEX_TTL_MS", 30000),
		ResourceIndexRefreshInterval: getEnvDurationMs("RESOURCE_INDEX_REFRESH_INTERVAL_MS", 300000),
		ResourceIndexRefreshTimeout:  getEnvDurationMs("RESOURCE_INDEX_REFRESH_TIMEOUT_MS", 120000),

		DefaultListLimit: getEnvInt("DEFAULT_LIST_LIMIT", DefaultListLimitValue),
		MaxListLimit:     getEnvInt("MAX_LIST_LIMIT", MaxListLimitValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// Profile is a named connection profile stored in a YAML file. Unset fields
// leave the corresponding Config value untouched.
type Profile struct {
	Host      string   `yaml:"host"`
	Tenant    string   `yaml:"tenant"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	SSLVerify *bool    `yaml:"ssl_verify"`
	PageSize  int      `yaml:"page_size"`
	Timeout   Duration `yaml:"timeout"`
	LogLevel  string   `yaml:"log_level"`
}

// Duration is a time.Duration read from YAML as "30s", "2m" and so on.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", node.Line, s, err)
	}
	*d = Duration(parsed)
	return nil
}

// profileFile is the on-disk layout: either a single profile at the top
// level, or several under "profiles" selected by name.
type profileFile struct {
	Profile  `yaml:",inline"`
	Default  string             `yaml:"default"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// ErrProfileNotFound is returned when a named profile is missing from the file.
var ErrProfileNotFound = errors.New("profile not found")

// LoadProfile reads a profile from a YAML file. name selects an entry of the
// "profiles" map; an empty name selects "default", or the top-level profile
// when the file has no profiles map.
func LoadProfile(path, name string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing profile file %s: %w", path, err)
	}

	if name == "" {
		name = f.Default
	}
	if name == "" {
		p := f.Profile
		return &p, nil
	}
	p, ok := f.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q in %s: %w", name, path, ErrProfileNotFound)
	}
	return &p, nil
}

// Apply overlays the set fields of p onto c.
func (c *Config) Apply(p *Profile) {
	if p == nil {
		return
	}
	if p.Host != "" {
		c.Host = p.Host
	}
	if p.Tenant != "" {
		c.Tenant = p.Tenant
	}
	if p.Username != "" {
		c.Username = p.Username
	}
	if p.Password != "" {
		c.Password = p.Password
	}
	if p.SSLVerify != nil {
		c.SSLVerify = *p.SSLVerify
	}
	if p.PageSize > 0 {
		c.PageSize = p.PageSize
	}
	if p.Timeout > 0 {
		c.HTTPClientTimeout = time.Duration(p.Timeout)
	}
	if p.LogLevel != "" {
		c.LogLevel = p.LogLevel
	}
}

// Validate reports the settings required to log in that are missing.
func (c *Config) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("vRA host is required (VRA_HOST or --server)"))
	}
	if c.Username == "" {
		errs = append(errs, errors.New("username is required (VRA_USERNAME or --username)"))
	}
	if c.Password == "" {
		errs = append(errs, errors.New("password is required (VRA_PASSWORD)"))
	}
	return errors.Join(errs...)
}

// Credentials returns the login credentials described by c.
func (c *Config) Credentials() client.Credentials {
	return client.Credentials{
		Username:  c.Username,
		Password:  c.Password,
		Host:      c.Host,
		Tenant:    c.Tenant,
		SSLVerify: c.SSLVerify,
	}
}

// ClientOptions returns the session options described by c.
func (c *Config) ClientOptions(userAgent string) []client.Option {
	opts := []client.Option{
		client.WithTimeout(c.HTTPClientTimeout),
		client.WithPageSize(c.PageSize),
	}
	if userAgent != "" {
		opts = append(opts, client.WithUserAgent(userAgent))
	}
	return opts
}

// ClampLimit applies the default and maximum list limits to a requested limit.
func (c *Config) ClampLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultListLimit
	}
	if c.MaxListLimit > 0 && limit > c.MaxListLimit {
		return c.MaxListLimit
	}
	return limit
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
