package assetcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// Entry is one cached response: status, the headers worth replaying, and the
// body. Bodies serialize as base64 inside the entry file.
type Entry struct {
	URL    string            `json:"url"`
	Status int               `json:"status"`
	Header map[string]string `json:"header,omitempty"`
	Body   []byte            `json:"body"`
}

// replayedHeaders are the response headers preserved across the cache.
var replayedHeaders = []string{"Content-Type", "Cache-Control", "ETag", "Last-Modified"}

// Cache is one named, versioned response cache: a directory of entry files
// keyed by a hash of the request URL.
type Cache struct {
	name string
	dir  string
}

// OpenCache creates or opens the named cache under root.
func OpenCache(root, name string) (*Cache, error) {
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache %s: %w", name, err)
	}
	return &Cache{name: name, dir: dir}, nil
}

// Name returns the versioned cache name.
func (c *Cache) Name() string { return c.name }

// Put stores a response under its request URL, replacing any previous entry.
func (c *Cache) Put(rawURL string, status int, header http.Header, body []byte) error {
	entry := Entry{
		URL:    rawURL,
		Status: status,
		Header: map[string]string{},
		Body:   body,
	}
	for _, name := range replayedHeaders {
		if v := header.Get(name); v != "" {
			entry.Header[name] = v
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache %s: encode %s: %w", c.name, rawURL, err)
	}

	// Write-then-rename so a concurrent reader never sees a torn entry.
	path := c.entryPath(rawURL)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("cache %s: write %s: %w", c.name, rawURL, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cache %s: store %s: %w", c.name, rawURL, err)
	}
	return nil
}

// Get returns the cached entry for a URL, ok=false on a miss. An unreadable
// entry counts as a miss.
func (c *Cache) Get(rawURL string) (Entry, bool) {
	data, err := os.ReadFile(c.entryPath(rawURL))
	if err != nil {
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, false
	}
	return entry, true
}

func (c *Cache) entryPath(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// EvictStale deletes every cache directory under root whose name is not in
// keep. Returns the names of the evicted caches.
func EvictStale(root string, keep ...string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan cache root: %w", err)
	}

	kept := make(map[string]bool, len(keep))
	for _, name := range keep {
		kept[name] = true
	}

	var evicted []string
	for _, entry := range entries {
		if !entry.IsDir() || kept[entry.Name()] {
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, entry.Name())); err != nil {
			return evicted, fmt.Errorf("evict cache %s: %w", entry.Name(), err)
		}
		evicted = append(evicted, entry.Name())
	}
	return evicted, nil
}
