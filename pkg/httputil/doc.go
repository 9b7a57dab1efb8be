// Package httputil fetches remote bitmaps for image nodes.
//
// # Overview
//
//   - [Fetcher]: GET with retry, size limit and an optional on-disk cache
//   - [Cache]: file-based byte cache with TTL
//   - [Retry]: exponential backoff for transient failures
//
// Scenes often reference the same logo or avatar across many renders, so
// fetched bytes are cached under $XDG_CACHE_HOME/canvasrender/images with a
// TTL (24h by default):
//
//	cache, _ := httputil.NewCache("", 24*time.Hour)
//	f := httputil.NewFetcher(cache)
//	data, err := f.Fetch(ctx, "https://example.com/logo.png")
//
// # Retry
//
// Network errors, 5xx responses and 429 are retried: 3 attempts, 500ms
// initial delay, doubling. Other statuses fail immediately; 404 maps to
// NOT_FOUND, the rest to NETWORK_ERROR.
//
// The cache can be cleared with `canvasrender cache clear` or by deleting
// the directory.
package httputil
