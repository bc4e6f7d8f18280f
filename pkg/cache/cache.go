// Package cache stores rendered figures so that an unchanged document is not
// drawn twice.
//
// Entries are opaque byte slices addressed by string keys. Keys for rendered
// output come from [ArtifactKey], which hashes the document together with the
// render settings:
//
//	key := cache.ArtifactKey(cache.Hash(doc), cache.RenderSettings{Format: "png", Scale: 2})
//	if data, ok, _ := c.Get(ctx, key); ok {
//		return data
//	}
//
// [FileCache] keeps entries on disk under the user cache directory;
// [NullCache] disables caching.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour

// DefaultDir returns the editplot directory inside the user cache directory
// ($XDG_CACHE_HOME on Linux).
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "editplot"), nil
}
