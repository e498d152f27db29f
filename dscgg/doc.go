// Package dscgg provides a client for the dsc.gg v2 REST API.
//
// dsc.gg is a link-shortening service for Discord communities. This package
// covers link CRUD, user and app lookups, search and the top-links listing,
// and decodes responses into typed values (Link, User, App, Embed, Color).
//
// # Features
//
//   - Link create/update/delete with embed metadata and passwords
//   - User, app and link lookups with absent-vs-error semantics
//   - Search with optional result limit and link-type filtering
//   - Typed error taxonomy over the service's status-code conventions
//   - Context-aware operations for graceful cancellation
//
// # Usage
//
//	client, err := dscgg.NewClient(token, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	link, err := client.GetLink(ctx, "dsc.gg/statch")
//	if link == nil && err == nil {
//	    // link does not exist
//	}
//
// All lookups return a nil value without an error when the service reports
// 404. Rate-limit responses (429) always surface as an error wrapping
// ErrRateLimited, regardless of the configured error policy.
package dscgg
