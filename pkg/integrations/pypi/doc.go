// Package pypi provides an HTTP client for the Python Package Index JSON API.
//
// # Usage
//
//	client := pypi.NewClient(cache.NewNullCache(), 24*time.Hour)
//	pkg, err := client.FetchPackage(ctx, "nose", false)  // false = use cache
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(pkg.Name, pkg.Version, pkg.Inactive())
//
// # PackageInfo
//
// [Client.FetchPackage] returns a [PackageInfo] containing the signals used
// to decide whether a package is abandoned:
//
//   - Classifiers: trove classifiers, see [PackageInfo.Inactive]
//   - Summary: free-text description, often announcing deprecation
//   - Yanked: every file of the latest release was yanked
//   - ProjectURLs, HomePage: links used to locate the source repository
//
// # Caching
//
// Responses are cached through the shared cache backend under the "pypi:"
// prefix, and decoded results are memoized in-process for the cache TTL.
// Pass refresh=true to [Client.FetchPackage] to bypass both.
package pypi
