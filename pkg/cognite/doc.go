// Package cognite provides the request execution pipeline for the
// Cognite Data Fusion (CDF) API: a fluent request builder with typed
// response decoding, cursor and partitioned pagination, the Identity and
// Patch/Update data model, and the error taxonomy those layers report
// through.
//
// # Overview
//
// cognite.Client wires a credential source (see internal/auth) and the
// retry/auth transport (see internal/transport) together and exposes a
// fluent request builder. Resource-specific collaborators — Assets,
// Events, TimeSeries, and so on — are thin wrappers over this core; see
// resources/ for illustrative examples, and pkg/cogniteclient for the
// builder that resolves configuration from the environment.
//
// Building a client and issuing a request:
//
//	import (
//	  "context"
//
//	  "github.com/cognitedata-community/cognite-sdk-go/internal/auth"
//	  "github.com/cognitedata-community/cognite-sdk-go/pkg/cognite"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := cognite.New(cognite.Config{
//	    Project: "my-project",
//	    AppName: "my-app",
//	    Auth:    auth.FixedToken{Token: "..."},
//	  })
//	  if err != nil { panic(err) }
//
//	  type Asset struct { ExternalID string `json:"externalId"` }
//
//	  asset, err := cognite.DecodeJSON[Asset](cli.Get("/assets/byids").AcceptJSON().Send(ctx))
//	  if err != nil { panic(err) }
//	  _ = asset
//	}
//
// # Pagination
//
// Collection endpoints follow CDF's cursor convention. FilterAll drives a
// filter-shaped request to completion; FilterAllPartitioned splits the
// same filter across N concurrent partitions; StreamPages produces a lazy,
// one-shot sequence for endpoints better consumed incrementally (e.g. Raw
// rows).
//
// # Errors
//
// API failures decode into *Error, a single structured type carrying a
// Kind alongside the HTTP status, server message, and optional
// missing/duplicated detail lists. IsNotFound, IsUnauthorized, and
// IsForbidden test the common cases; GetMissingFromResult extracts the
// Identities behind a missing-id failure so a caller can create them and
// retry.
package cognite
