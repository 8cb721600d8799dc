package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTenant is used when Credentials.Tenant is empty.
	DefaultTenant = "vsphere.local"

	// DefaultPageSize is the page size requested from paginated collections.
	DefaultPageSize = 100

	// DefaultTimeout is the HTTP client timeout used when no client is supplied.
	DefaultTimeout = 30 * time.Second
)

// Credentials identify the user and the vRA appliance to log in to.
type Credentials struct {
	Username string
	Password string
	// Host is the FQDN of the vRA appliance. A full URL (scheme included) is
	// also accepted.
	Host string
	// Tenant defaults to DefaultTenant.
	Tenant string
	// SSLVerify enables TLS certificate verification.
	SSLVerify bool
}

// Session is a logged-in vRA session bound to one tenant.
// It is safe for concurrent use.
type Session struct {
	baseURL    string
	host       string
	tenant     string
	username   string
	sslVerify  bool
	pageSize   int
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option is a functional option for configuring a Session.
type Option func(*Session)

// WithHTTPClient sets a custom HTTP client. SSLVerify and WithTimeout are not
// applied to a custom client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Session) {
		s.httpClient = httpClient
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(s *Session) {
		s.userAgent = ua
	}
}

// WithPageSize sets the page size used when walking paginated collections.
func WithPageSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// Login authenticates against the vRA identity service and returns a Session
// holding the issued bearer token.
//
// A rejected login returns *AuthenticationError and no other request is made.
func Login(ctx context.Context, creds Credentials, opts ...Option) (*Session, error) {
	s, err := newSession(creds, opts)
	if err != nil {
		return nil, err
	}
	if err := s.authenticate(ctx, creds.Password); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSession creates a Session from a bearer token obtained elsewhere.
// Credentials.Password is ignored.
func NewSession(creds Credentials, token string, opts ...Option) (*Session, error) {
	s, err := newSession(creds, opts)
	if err != nil {
		return nil, err
	}
	s.token = token
	return s, nil
}

func newSession(creds Credentials, opts []Option) (*Session, error) {
	if creds.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	baseURL, err := normalizeHost(creds.Host)
	if err != nil {
		return nil, err
	}

	tenant := creds.Tenant
	if tenant == "" {
		tenant = DefaultTenant
	}

	s := &Session{
		baseURL:   baseURL,
		host:      creds.Host,
		tenant:    tenant,
		username:  creds.Username,
		sslVerify: creds.SSLVerify,
		pageSize:  DefaultPageSize,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if !s.sslVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		s.httpClient = &http.Client{
			Transport: transport,
			Timeout:   s.timeout,
		}
	}

	return s, nil
}

// normalizeHost turns an FQDN or URL into the API base URL.
func normalizeHost(host string) (string, error) {
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("parsing host: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("parsing host: no host in %q", host)
	}
	return strings.TrimSuffix(u.String(), "/"), nil
}

// Host returns the host the session was created for.
func (s *Session) Host() string { return s.host }

// Tenant returns the tenant the session is bound to.
func (s *Session) Tenant() string { return s.tenant }

// Username returns the user the session was created for.
func (s *Session) Username() string { return s.username }

// SSLVerify reports whether TLS certificates are verified.
func (s *Session) SSLVerify() bool { return s.sslVerify }

// Token returns the bearer token, or "" if the session is logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// tokenRequest is the body posted to the identity service.
type tokenRequest struct {
	Tenant   string `json:"tenant"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse is the identity service answer to a login.
type tokenResponse struct {
	ID      string `json:"id"`
	Expires string `json:"expires"`
	Tenant  string `json:"tenant"`
}

// authenticate posts the credentials and stores the issued token.
func (s *Session) authenticate(ctx context.Context, password string) error {
	start := time.Now()

	payload, err := json.Marshal(tokenRequest{
		Tenant:   s.tenant,
		Username: s.username,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("encoding login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/identity/api/tokens", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating login request: %w", err)
	}
	s.setHeaders(req, "")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", s.host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading login response: %w", err)
	}

	slog.Debug("vRA login completed",
		slog.String("host", s.host),
		slog.String("tenant", s.tenant),
		slog.String("username", s.username),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if !isSuccess(resp.StatusCode) {
		return &AuthenticationError{
			Host:       s.host,
			StatusCode: resp.StatusCode,
			Message:    apiMessage(body),
			Body:       body,
		}
	}

	var out tokenResponse
	if err := json.Unmarshal(body, &out); err != nil || out.ID == "" {
		return &AuthenticationError{
			Host:       s.host,
			StatusCode: resp.StatusCode,
			Message:    "no bearer token found in response",
			Body:       body,
		}
	}

	s.setToken(out.ID)
	return nil
}

// Relogin obtains a fresh token for the session user and replaces the stored
// one. The password is not kept by the Session, so it has to be supplied again.
func (s *Session) Relogin(ctx context.Context, password string) error {
	return s.authenticate(ctx, password)
}

// ValidateToken checks with the identity service that the token is still valid.
func (s *Session) ValidateToken(ctx context.Context) error {
	token := s.Token()
	return s.Do(ctx, http.MethodHead, "/identity/api/tokens/"+url.PathEscape(token), nil, nil, nil)
}

// Logout revokes the token on the server and clears it from the session.
// Later calls fail with a RequestError wrapping ErrNoToken.
func (s *Session) Logout(ctx context.Context) error {
	token := s.Token()
	if err := s.Do(ctx, http.MethodDelete, "/identity/api/tokens/"+url.PathEscape(token), nil, nil, nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	s.setToken("")
	return nil
}

func (s *Session) setHeaders(req *http.Request, token string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// Do issues an authenticated request against path (relative to the appliance
// root) and decodes the JSON response into result when result is non-nil.
//
// Supported methods are GET, HEAD, POST, PUT and DELETE. payload may be nil,
// a []byte / json.RawMessage sent verbatim, or any value encodable as JSON.
// It is the escape hatch for endpoints the SDK does not wrap:
//
//	var groups map[string]any
//	err := s.Do(ctx, http.MethodGet, "/properties-service/api/propertygroups", nil, nil, &groups)
func (s *Session) Do(ctx context.Context, method, path string, query url.Values, payload, result any) error {
	resp, err := s.send(ctx, method, path, query, payload)
	if err != nil {
		return err
	}
	if result == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	return decode(resp.body, result)
}

// response is a fully read HTTP response.
type response struct {
	status int
	header http.Header
	body   []byte
}

// send performs the HTTP exchange and maps non-2xx answers to *RequestError.
func (s *Session) send(ctx context.Context, method, path string, query url.Values, payload any) (*response, error) {
	start := time.Now()

	u, err := url.Parse(s.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	fullURL := u.String()

	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, &RequestError{Method: method, URL: fullURL, Message: "method not implemented"}
	}

	token := s.Token()
	if token == "" {
		return nil, &RequestError{Method: method, URL: fullURL, Message: ErrNoToken.Error(), Err: ErrNoToken}
	}

	var body io.Reader
	if payload != nil {
		var data []byte
		switch p := payload.(type) {
		case []byte:
			data = p
		case json.RawMessage:
			data = p
		default:
			data, err = json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("encoding request body: %w", err)
			}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	s.setHeaders(req, token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Debug("HTTP request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, &RequestError{Method: method, URL: fullURL, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Method: method, URL: fullURL, StatusCode: resp.StatusCode, Message: "reading body: " + err.Error(), Err: err}
	}

	if !isSuccess(resp.StatusCode) {
		slog.Debug("HTTP request returned error",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, &RequestError{
			Method:     method,
			URL:        fullURL,
			StatusCode: resp.StatusCode,
			Message:    apiMessage(respBody),
			Body:       respBody,
		}
	}

	slog.Debug("HTTP request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return &response{status: resp.StatusCode, header: resp.Header, body: respBody}, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
