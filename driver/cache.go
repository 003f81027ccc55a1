package driver

import (
	"bytes"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/filetestdriver/status"
)

// CacheEntry is one file's last-known run outcome, keyed by its content
// hash, so a watch-mode loop can skip files that have not changed and
// already passed.
type CacheEntry struct {
	Hash   []byte
	Passed bool
}

// Cache is an on-disk, content-hash-keyed memo of the last run outcome
// per file, for watch mode. Not safe to share across goroutines without
// going through its methods, which do take a lock.
type Cache struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]CacheEntry)}
}

// HashContent returns the blake2b-256 digest of content, the key this
// cache uses to detect an unchanged file.
func HashContent(content []byte) []byte {
	sum := blake2b.Sum256(content)
	return sum[:]
}

// Unchanged reports whether file's last recorded hash matches hash and
// that run passed.
func (c *Cache) Unchanged(file string, hash []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, exists := c.entries[file]
	return exists && entry.Passed && bytes.Equal(entry.Hash, hash)
}

// Record stores file's outcome for this run.
func (c *Cache) Record(file string, hash []byte, passed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[file] = CacheEntry{Hash: hash, Passed: passed}
}

// Load replaces the cache's contents with the CBOR-encoded entries at
// path. A missing file is not an error; the cache simply starts empty.
func (c *Cache) Load(path string) *status.Status {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ok()
		}
		return status.Internalf("driver: reading cache file %q: %v", path, err)
	}

	var entries map[string]CacheEntry
	if err := cbor.Unmarshal(data, &entries); err != nil {
		return status.InvalidArgumentf("driver: decoding cache file %q: %v", path, err)
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return ok()
}

// Save writes the cache's contents to path as CBOR.
func (c *Cache) Save(path string) *status.Status {
	c.mu.Lock()
	data, err := cbor.Marshal(c.entries)
	c.mu.Unlock()
	if err != nil {
		return status.Internalf("driver: encoding cache: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return status.Internalf("driver: writing cache file %q: %v", path, err)
	}
	return ok()
}
