package cache

// Cache defines the port interface for robots.txt result caching.
// This interface follows the port-adapter pattern, allowing different
// cache implementations to be swapped without changing the fetcher logic.
//
// The cache uses simple key-value storage (strings only); the fetcher is
// responsible for serializing fetch results into the stored value.
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached value and true if found, or empty string and
	// false if not found.
	Get(key string) (string, bool)

	// Put stores a key-value pair in the cache.
	// If the key already exists, the value is overwritten.
	// Whether entries outlive the process depends on the adapter.
	Put(key string, value string)
}
