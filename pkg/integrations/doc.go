// Package integrations provides HTTP clients for the registries and feeds
// the knowledge-base collector reads.
//
// # Overview
//
// Each upstream has its own subpackage:
//
//   - [pypi]: Python Package Index JSON API
//   - [github]: GitHub REST API for repository signals
//   - [osv]: OSV vulnerability database for security advisories
//
// # Client Pattern
//
// All clients follow a consistent pattern:
//
//	shared, _ := cache.NewFileCache("")
//	client := pypi.NewClient(shared, 24*time.Hour)
//	pkg, err := client.FetchPackage(ctx, "nose", false)  // false = use cache
//
// Clients handle:
//   - HTTP requests with retry and rate limiting
//   - Response caching through [cache.Cache] with a per-client key prefix
//   - API-specific parsing and normalization
//
// # Shared Infrastructure
//
// The [Client] type provides the shared HTTP functionality. Requests are
// reported to the observability HTTP hooks and, when a logger is set,
// logged at debug level.
//
// [pypi]: github.com/julicq/is-deprecated-or-not/pkg/integrations/pypi
// [github]: github.com/julicq/is-deprecated-or-not/pkg/integrations/github
// [osv]: github.com/julicq/is-deprecated-or-not/pkg/integrations/osv
// [cache.Cache]: github.com/julicq/is-deprecated-or-not/pkg/cache.Cache
package integrations
