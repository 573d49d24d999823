package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/vra-client/internal/auth"
	"github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/internal/metrics"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// Client implements the vra.Client interface.
type Client struct {
	httpClient *http.Client
	auth       *auth.Manager
	paginator  *Paginator
	baseURL    string

	// Resource clients
	catalog        *CatalogClient
	catalogSources *CatalogSourcesClient
	catalogTypes   *CatalogTypesClient
	deployments    *DeploymentsClient
	requests       *RequestsClient
	resources      *ResourcesClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *vra.Config) ([]http.Option, error) {
	httpOpts := []http.Option{
		http.WithVerifyTLS(config.VerifyTLS()),
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.MetricsRegisterer != nil {
		collector, err := metrics.NewCollector(config.MetricsRegisterer)
		if err != nil {
			return nil, err
		}

		httpOpts = append(httpOpts, http.WithObserver(collector))
	}

	return httpOpts, nil
}

// New creates a client from a validated config. Defaults are applied here
// as well, so a config straight from the caller is accepted.
func New(_ context.Context, config *vra.Config) (*Client, error) {
	if config == nil {
		return nil, vra.ErrConfigRequired
	}

	cfg := config.WithDefaults()

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	transport, err := http.NewTransport(cfg.Transport, http.TransportOptions{
		Timeout:      cfg.HTTPTimeout,
		RetryMax:     cfg.RetryMax,
		RetryWaitMin: cfg.RetryWaitMin,
		RetryWaitMax: cfg.RetryWaitMax,
		Logger:       cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating transport: %w", err)
	}

	httpOpts, err := createHTTPClientOptions(&cfg)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(cfg.BaseURL, transport, httpOpts...)

	client := &Client{
		httpClient: httpClient,
		auth:       auth.NewManager(httpClient, auth.CredentialsFromConfig(cfg), cfg.Logger),
		paginator:  NewPaginator(httpClient, cfg.Pagination, cfg.PageSize),
		baseURL:    cfg.BaseURL,
	}

	client.initializeResourceClients()

	return client, nil
}

func (c *Client) initializeResourceClients() {
	c.catalog = NewCatalogClient(c.httpClient, c.paginator)
	c.catalogSources = NewCatalogSourcesClient(c.httpClient, c.paginator)
	c.catalogTypes = NewCatalogTypesClient(c.httpClient, c.paginator)
	c.deployments = NewDeploymentsClient(c.httpClient, c.paginator)
	c.requests = NewRequestsClient(c.httpClient, c.paginator)
	c.resources = NewResourcesClient(c.httpClient, c.paginator)
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsAuthorized implements vra.AuthClient.IsAuthorized.
func (c *Client) IsAuthorized(ctx context.Context) bool {
	return c.auth.IsAuthorized(ctx)
}

// Authorize implements vra.AuthClient.Authorize.
func (c *Client) Authorize(ctx context.Context) error {
	return c.auth.Authorize(ctx)
}

// GenerateToken implements vra.AuthClient.GenerateToken.
func (c *Client) GenerateToken(ctx context.Context) error {
	return c.auth.GenerateToken(ctx)
}

// Token implements vra.AuthClient.Token.
func (c *Client) Token() string {
	return c.auth.Token()
}

// Resource client accessors

// Catalog implements vra.Client.Catalog.
func (c *Client) Catalog() vra.CatalogClient {
	return c.catalog
}

// CatalogSources implements vra.Client.CatalogSources.
func (c *Client) CatalogSources() vra.CatalogSourcesClient {
	return c.catalogSources
}

// CatalogTypes implements vra.Client.CatalogTypes.
func (c *Client) CatalogTypes() vra.CatalogTypesClient {
	return c.catalogTypes
}

// Deployments implements vra.Client.Deployments.
func (c *Client) Deployments() vra.DeploymentsClient {
	return c.deployments
}

// Requests implements vra.Client.Requests.
func (c *Client) Requests() vra.RequestsClient {
	return c.requests
}

// Resources implements vra.Client.Resources.
func (c *Client) Resources() vra.ResourcesClient {
	return c.resources
}

var _ vra.Client = (*Client)(nil)
