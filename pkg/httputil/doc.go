// Package httputil provides HTTP utilities for the registry clients used
// by the knowledge-base collector.
//
// # Retry
//
// [Retry] re-runs an operation while it fails with a [RetryableError]:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// The delay doubles after each failed attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch(ctx)
//	})
//
// Errors that are not wrapped in [RetryableError] (404s, decode failures)
// are returned immediately.
//
// [RetryWithBackoff] applies the defaults used by every registry client:
// 3 attempts, 1 second initial delay.
//
// Response caching lives in package cache.
package httputil
