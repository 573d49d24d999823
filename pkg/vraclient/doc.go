// Package vraclient provides the primary entry point for constructing a
// vRealize Automation API client that implements the vra.Client interface.
//
// It layers configuration, HTTP transport, authentication and metrics on top
// of the resource interfaces and types defined in the vra package. Most
// applications should import vraclient to build a client, then use the
// returned vra.Client to reach the resource clients, for example Catalog(),
// Deployments() or Resources().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/vra-client/pkg/vra"
//	  "github.com/fivetwenty-io/vra-client/pkg/vraclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Access-token login at the CSP gateway.
//	  cli, err := vraclient.NewWithDomain(ctx, "vra.example.com", "user", "pass", "example.com")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or a bearer-token login for a tenant, with full control over the
//	  // remaining settings.
//	  cli, err = vraclient.New(ctx, &vra.Config{
//	    BaseURL:    "https://vra.example.com",
//	    Username:   "user",
//	    Password:   "pass",
//	    Tenant:     "vsphere.local",
//	    AuthMode:   vra.AuthModeBearer,
//	    Pagination: vra.PaginationPageLimit,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  items, err := cli.Catalog().ListEntitledItems(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = items
//	}
//
// A base URL without a scheme is treated as https. No call is made until the
// first resource method runs; tokens are acquired lazily at that point.
package vraclient
