// Package cache provides translation caches for the doclai engine.
//
// Keys are built by doclai.CacheKey and look like "<sha256>:<source>:<target>",
// so one cache can serve several language pairs.
package cache

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}

// Snapshotter is implemented by caches whose contents can be listed for export.
type Snapshotter interface {
	Snapshot() (map[string]string, error)
}
