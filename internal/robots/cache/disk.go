package cache

import (
	"os"
	"path/filepath"

	"github.com/rohmanhakim/robots-parser/pkg/failure"
	"github.com/rohmanhakim/robots-parser/pkg/fileutil"
	"github.com/rohmanhakim/robots-parser/pkg/hashutil"
)

// DiskCache is a Cache adapter that persists entries under a directory, so
// fetched robots.txt documents survive across runs.
//
// Filenames are derived from a hash of the key, which keeps the layout
// deterministic and makes any key string safe to store. Writes are best
// effort: a failed Put degrades to a cache miss on the next Get.
type DiskCache struct {
	dir string
}

// NewDiskCache creates a DiskCache rooted at dir, creating the directory if
// it does not exist.
func NewDiskCache(dir string) (*DiskCache, failure.ClassifiedError) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// entryPath maps a cache key to its file. The first 12 hex characters of
// the key hash are enough to keep per-host entries distinct.
func (c *DiskCache) entryPath(key string) string {
	keyHash, err := hashutil.HashBytes([]byte(key), hashutil.HashAlgoSHA256)
	if err != nil {
		return filepath.Join(c.dir, "invalid.json")
	}
	return filepath.Join(c.dir, keyHash[:12]+".json")
}

func (c *DiskCache) Get(key string) (string, bool) {
	content, err := fileutil.ReadTextFile(c.entryPath(key))
	if err != nil {
		return "", false
	}
	return content, true
}

func (c *DiskCache) Put(key string, value string) {
	path := c.entryPath(key)

	// Write to a temp file in the same directory, then rename so readers
	// never observe a partial entry
	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
	}
}

// Dir returns the directory the cache stores entries in.
func (c *DiskCache) Dir() string {
	return c.dir
}
