// Package github provides an HTTP client for the GitHub REST API.
//
// The collector uses it to learn whether the source repository of a Python
// package has been archived by its owners.
//
// # Usage
//
//	client := github.NewClient(backend, token, 24*time.Hour)
//	owner, repo, ok := github.ExtractURL(pkg.ProjectURLs, pkg.HomePage)
//	if ok {
//	    metrics, err := client.Fetch(ctx, owner, repo, false)
//	    ...
//	    fmt.Println("Archived:", metrics.Archived)
//	}
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour.
package github
