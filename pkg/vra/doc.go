// Package vra provides types, interfaces, and helpers for working with the
// vRealize Automation REST API.
//
// # Overview
//
// The vra package defines the domain types (e.g., CatalogItem, Deployment,
// Request, Resource) and the interfaces for resource-oriented clients (e.g.,
// CatalogClient, DeploymentsClient). A concrete implementation is provided by
// the vraclient package, which wires configuration, transport,
// authentication, and metrics. Most consumers should import vraclient to
// construct a client and then use the resource client interfaces exposed here.
//
// Getting a client
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
//	  cli, err := vraclient.New(ctx, &vra.Config{
//	    BaseURL:  "https://vra.example.com",
//	    Username: "admin",
//	    Password: "secret",
//	    Domain:   "example.com",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  deployments, err := cli.Deployments().List(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = deployments
//	}
//
// # Pagination
//
// List calls always return the complete collection. Pages are fetched in
// order until the server reported page count is reached. If two pages overlap,
// the call fails with ErrDuplicateItemsDetected instead of returning a
// corrupted collection; raising Config.PageSize usually avoids the overlap.
//
// # Errors
//
// Terminal non-2xx responses and transport failures are *HTTPError values.
// IsNotFound and IsUnauthorized branch on the common cases, and StatusCode
// extracts the HTTP status. Submissions wrap HTTP failures in *RequestError,
// and missing inputs are reported as *ValidationError before any call is made.
//
// # Concurrency
//
// A Client is not safe for concurrent use. See AuthClient.
package vra
