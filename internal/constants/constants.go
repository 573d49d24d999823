package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for a single HTTP attempt.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits. Retries are off unless the caller sets RetryMax.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Redirect handling.
const (
	// MaxRedirectHops bounds the number of redirects followed by one call.
	MaxRedirectHops = 10
)

// Success range of terminal responses, inclusive.
const (
	// HTTPStatusSuccessMin is the lowest success status.
	HTTPStatusSuccessMin = 200

	// HTTPStatusSuccessMax is the highest success status.
	HTTPStatusSuccessMax = 207
)

// Identity service endpoints used by bearer-token logins.
const (
	// PathIdentityTokens issues bearer tokens.
	PathIdentityTokens = "/identity/api/tokens"
)

// CSP gateway endpoints used by access-token logins.
const (
	// PathCSPLogin issues access and refresh tokens.
	PathCSPLogin = "/csp/gateway/am/api/login"

	// PathCSPLoggedInUser answers 200 while the access token is valid.
	PathCSPLoggedInUser = "/csp/gateway/am/api/loggedin/user"

	// PathIaaSLogin exchanges a refresh token for an access token.
	PathIaaSLogin = "/iaas/api/login"
)

// Catalog service endpoints.
const (
	PathCatalogItems         = "/catalog-service/api/consumer/catalogItems"
	PathEntitledCatalogItems = "/catalog-service/api/consumer/entitledCatalogItems"
	PathConsumerRequests     = "/catalog-service/api/consumer/requests"
	PathConsumerResources    = "/catalog-service/api/consumer/resources"
)

// Catalog endpoints.
const (
	PathCatalogSources      = "/catalog/api/admin/sources"
	PathCatalogEntitlements = "/catalog/api/admin/entitlements"
	PathCatalogTypes        = "/catalog/api/types"
	PathCatalogRequestItems = "/catalog/api/items"
)

// Deployment endpoints.
const (
	PathDeployments = "/deployment/api/deployments"
)

// Payload constants.
const (
	// EntitlementTypeCatalogSource is the definition type of source entitlements.
	EntitlementTypeCatalogSource = "CatalogSourceIdentifier"

	// RequestTypeCatalogItem is the @type of catalog item requests.
	RequestTypeCatalogItem = "CatalogItemRequest"

	// RequestTypeResourceAction is the @type of resource action requests.
	RequestTypeResourceAction = "ResourceActionRequest"

	// RequestStateSubmitted is the initial state of submitted requests.
	RequestStateSubmitted = "SUBMITTED"
)

// Environment variables.
const (
	// EnvHTTPTrace enables request/response tracing when set to any value.
	EnvHTTPTrace = "VRA_HTTP_TRACE"

	// EnvPrefix prefixes every CLI environment variable.
	EnvPrefix = "VRA"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "********"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)
