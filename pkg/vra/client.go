package vra

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AuthMode selects the login flow used by the token manager.
type AuthMode string

const (
	// AuthModeAccessToken logs in at the CSP gateway with
	// username/password/domain and receives an access/refresh token pair.
	AuthModeAccessToken AuthMode = "access-token"
	// AuthModeBearer logs in at the identity service with
	// username/password/tenant and receives a bearer token id.
	AuthModeBearer AuthMode = "bearer"
)

// PaginationStyle selects how list endpoints are paged.
type PaginationStyle string

const (
	// PaginationSkipTop pages with $top/$skip and reads a top-level totalPages.
	PaginationSkipTop PaginationStyle = "skip-top"
	// PaginationPageLimit pages with limit/page and reads metadata.totalPages.
	PaginationPageLimit PaginationStyle = "page"
)

// TransportKind selects the HTTP library used to perform requests.
type TransportKind string

const (
	// TransportRetryable uses hashicorp/go-retryablehttp.
	TransportRetryable TransportKind = "retryable"
	// TransportResty uses go-resty/resty.
	TransportResty TransportKind = "resty"
)

// DefaultPageSize is the page size used when Config.PageSize is zero.
const DefaultPageSize = 20

// AuthClient exposes the session's token manager.
//
// The token manager is not safe for concurrent use: Authorize checks the
// token and then regenerates it without holding a lock across both steps.
// Callers sharing one client between goroutines must serialize calls.
type AuthClient interface {
	IsAuthorized(ctx context.Context) bool
	Authorize(ctx context.Context) error
	GenerateToken(ctx context.Context) error
	Token() string
}

// CatalogClients provides access to catalog related resource clients.
type CatalogClients interface {
	Catalog() CatalogClient
	CatalogSources() CatalogSourcesClient
	CatalogTypes() CatalogTypesClient
}

// ProvisioningClients provides access to provisioned resource clients.
type ProvisioningClients interface {
	Deployments() DeploymentsClient
	Requests() RequestsClient
	Resources() ResourcesClient
}

// Client is the root client for the platform API.
type Client interface {
	AuthClient
	CatalogClients
	ProvisioningClients
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a vra.Client.
//
// # Authentication
//
// Username and Password are always required. AuthModeBearer additionally
// requires Tenant, AuthModeAccessToken requires Domain. Tokens are acquired
// lazily on the first authenticated call and re-acquired whenever the probe
// endpoint reports the current one as no longer valid.
//
// # Pagination
//
// The two list conventions seen across API generations are not inferred from
// response shapes; pick the one matching the target with Pagination.
//
// # Timeouts, retries, and TLS
//
// Per-request timeouts should be controlled via the context passed to client
// methods. RetryMax defaults to zero, so no request is retried unless the
// caller opts in. SkipTLSVerify disables certificate validation for every
// hop of every call.
type Config struct {
	// BaseURL: base URL of the platform (e.g., "https://vra.example.com").
	BaseURL string `json:"base_url" mapstructure:"base_url" validate:"required,http_url"`

	// Username: account used for login.
	Username string `json:"username" mapstructure:"username" validate:"required"`
	// Password: password for Username. Never logged.
	Password string `json:"password" mapstructure:"password" validate:"required"`
	// Tenant: tenant sent with AuthModeBearer logins.
	Tenant string `json:"tenant" mapstructure:"tenant" validate:"required_if=AuthMode bearer"`
	// Domain: identity domain sent with AuthModeAccessToken logins.
	Domain string `json:"domain" mapstructure:"domain" validate:"required_if=AuthMode access-token"`

	// AuthMode: login flow. Defaults to AuthModeAccessToken.
	AuthMode AuthMode `json:"auth_mode" mapstructure:"auth_mode" validate:"oneof=bearer access-token"`
	// Pagination: list paging convention. Defaults to PaginationSkipTop.
	Pagination PaginationStyle `json:"pagination" mapstructure:"pagination" validate:"oneof=page skip-top"`
	// PageSize: items requested per page. Defaults to DefaultPageSize.
	PageSize int `json:"page_size" mapstructure:"page_size" validate:"gte=1"`

	// SkipTLSVerify: when true, certificates are not validated.
	SkipTLSVerify bool `json:"skip_tls_verify" mapstructure:"skip_ssl_validation"`
	// Transport: HTTP library. Defaults to TransportRetryable.
	Transport TransportKind `json:"transport" mapstructure:"transport" validate:"oneof=retryable resty"`
	// HTTPTimeout: per-attempt timeout applied by the transport.
	HTTPTimeout time.Duration `json:"http_timeout" mapstructure:"http_timeout"`
	// RetryMax: retries for transient transport failures (retryable transport only).
	RetryMax int `json:"retry_max" mapstructure:"retry_max" validate:"gte=0"`
	// RetryWaitMin: minimum backoff between retries.
	RetryWaitMin time.Duration `json:"retry_wait_min" mapstructure:"retry_wait_min"`
	// RetryWaitMax: maximum backoff between retries.
	RetryWaitMax time.Duration `json:"retry_wait_max" mapstructure:"retry_wait_max"`
	// UserAgent: overrides the default User-Agent header.
	UserAgent string `json:"user_agent" mapstructure:"user_agent"`

	// Debug: enables request/response tracing through Logger. Tracing is also
	// enabled when VRA_HTTP_TRACE is set in the environment.
	Debug bool `json:"debug" mapstructure:"debug"`
	// Logger: optional structured logger.
	Logger Logger `json:"-" mapstructure:"-" validate:"-"`
	// MetricsRegisterer: optional registry for HTTP metrics.
	MetricsRegisterer prometheus.Registerer `json:"-" mapstructure:"-" validate:"-"`
}

// WithDefaults returns a copy of the config with defaults applied and the
// base URL trimmed of trailing slashes.
func (c Config) WithDefaults() Config {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")

	if c.AuthMode == "" {
		c.AuthMode = AuthModeAccessToken
	}

	if c.Pagination == "" {
		c.Pagination = PaginationSkipTop
	}

	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}

	if c.Transport == "" {
		c.Transport = TransportRetryable
	}

	return c
}

// Validate checks the config after defaults have been applied.
func (c Config) Validate() error {
	return ValidateStruct("invalid client configuration", c)
}

// VerifyTLS reports whether certificates must be validated.
func (c Config) VerifyTLS() bool {
	return !c.SkipTLSVerify
}
