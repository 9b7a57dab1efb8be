package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when an entry exists but is older
// than the TTL. The stale bytes are still returned.
var ErrExpired = errors.New("cache entry expired")

// Cache stores byte payloads as files named by the SHA-256 of their key.
// Entry age is the file's modification time. A TTL of 0 never expires.
//
// A Cache is safe for concurrent use: writes go through a temporary file and
// a rename, so readers see either the old or the new entry.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// DefaultDir returns $XDG_CACHE_HOME/canvasrender/images, or the platform
// equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "canvasrender", "images"), nil
}

// NewCache creates a Cache in dir, or in DefaultDir when dir is empty.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

func (c *Cache) Dir() string        { return c.dir }
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the entry for key.
//
//   - (data, nil): fresh hit
//   - (nil, nil): miss
//   - (data, ErrExpired): stale hit
//   - (nil, err): I/O failure
func (c *Cache) Get(key string) ([]byte, error) {
	path := c.keyPath(c.prefix + key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return data, ErrExpired
	}
	return data, nil
}

// Set stores data under key and refreshes its age.
func (c *Cache) Set(key string, data []byte) error {
	path := c.keyPath(c.prefix + key)
	tmp, err := os.CreateTemp(c.dir, ".fetch-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Namespace returns a view of the cache whose keys are prefixed.
//
//	remote := cache.Namespace("http:")
//	inline := cache.Namespace("data:")
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{dir: c.dir, ttl: c.ttl, prefix: c.prefix + prefix}
}

// Clear removes every entry in the cache directory, whatever its namespace.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
