// Package osv provides an HTTP client for the OSV vulnerability database
// (https://osv.dev).
//
// The collector queries it for advisories against PyPI packages; advisories
// that describe a package as unmaintained or deprecated become knowledge
// base records.
//
//	client := osv.NewClient(backend, 6*time.Hour)
//	vulns, err := client.Query(ctx, "pycrypto", false)
package osv
