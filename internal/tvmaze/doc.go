// Package tvmaze provides an HTTP client for the public TVMaze API.
//
// # Overview
//
// The package is the catalog collaborator behind the show browser and the
// detail loader. It exposes three read-only operations through the Catalog
// interface:
//
//   - GetPage: GET /shows?page=N, one page of the show index
//   - Search: GET /search/shows?q=..., scored fuzzy search
//   - GetByID: GET /shows/{id}, a single show
//
// # Request Handling
//
// All requests:
//   - Use ctx for cancellation; a cancelled search returns an error matching
//     errors.Is(err, context.Canceled)
//   - Wait on a client-side rate limiter first (TVMaze allows 20 calls per
//     10 seconds per IP)
//   - Set Accept: application/json and User-Agent: telly/0.1
//   - Return *StatusError for non-2xx responses
//
// # Caching
//
// GetPage and GetByID responses are kept in an expiring LRU when
// Options.CacheSize is positive. Search results are never cached because the
// browser relies on every search reaching the network for cancellation to be
// meaningful.
//
// # Usage Example
//
//	client, err := tvmaze.NewClient(tvmaze.Options{CacheSize: 256, CacheTTL: 10 * time.Minute})
//	if err != nil {
//		return err
//	}
//	results, err := client.Search(ctx, "planet earth")
package tvmaze
