// Package vraclient provides the main entry point for creating vRealize Automation API clients
package vraclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/client"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// New creates a new client. The config is not modified.
func New(ctx context.Context, config *vra.Config) (vra.Client, error) {
	if config == nil {
		return nil, vra.ErrConfigRequired
	}

	cfg := *config

	cfg.BaseURL = normalizeBaseURL(cfg.BaseURL)
	if cfg.BaseURL == "" {
		return nil, vra.ErrBaseURLRequired
	}

	cli, err := client.New(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// NewWithTenant creates a client that logs in with a bearer token issued
// for tenant.
func NewWithTenant(ctx context.Context, baseURL, username, password, tenant string) (vra.Client, error) {
	return New(ctx, &vra.Config{
		BaseURL:  baseURL,
		Username: username,
		Password: password,
		Tenant:   tenant,
		AuthMode: vra.AuthModeBearer,
	})
}

// NewWithDomain creates a client that logs in at the CSP gateway with an
// account of domain.
func NewWithDomain(ctx context.Context, baseURL, username, password, domain string) (vra.Client, error) {
	return New(ctx, &vra.Config{
		BaseURL:  baseURL,
		Username: username,
		Password: password,
		Domain:   domain,
		AuthMode: vra.AuthModeAccessToken,
	})
}

// normalizeBaseURL trims the URL and assumes https when no scheme is given.
func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return ""
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}
