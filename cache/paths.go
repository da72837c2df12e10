// Package cache persists binary assets (thumbnails, lecture resources)
// on disk, keyed by entity id. Existence of a cache file is the sole
// proof of a previously successful download; entries are permanent
// until manually cleared.
package cache

import (
	"fmt"
	"path/filepath"

	"coursefetch/internal"
	"coursefetch/utils"
)

// Cache namespaces, one per entity kind. Namespacing by kind and id
// guarantees no two distinct entities ever contend for the same path.
const (
	NamespaceClass   = "class"
	NamespaceCourse  = "course"
	NamespaceLecture = "lecture"
)

// AssetCache maps entity ids to stable file paths under a namespaced
// base directory.
type AssetCache struct {
	base    string
	fileOps *utils.FileOperations
}

var _ internal.AssetStore = (*AssetCache)(nil)

// NewAssetCache creates a cache rooted at base.
func NewAssetCache(base string) *AssetCache {
	return &AssetCache{
		base:    base,
		fileOps: utils.NewFileOperations(),
	}
}

// Base returns the cache root directory.
func (c *AssetCache) Base() string {
	return c.base
}

// Path returns base/namespace/entityID, creating the namespace
// directory if absent. The returned path is the single source of truth
// for "is this asset cached"; callers test file existence, never a
// separate index.
func (c *AssetCache) Path(namespace, entityID string) (string, error) {
	if err := validateKey(namespace, entityID); err != nil {
		return "", err
	}

	dir := filepath.Join(c.base, namespace)
	if err := c.fileOps.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	return filepath.Join(dir, entityID), nil
}

// Has reports whether the asset for entityID is already cached.
func (c *AssetCache) Has(namespace, entityID string) bool {
	if validateKey(namespace, entityID) != nil {
		return false
	}
	return c.fileOps.FileExists(filepath.Join(c.base, namespace, entityID))
}

func validateKey(namespace, entityID string) error {
	switch namespace {
	case NamespaceClass, NamespaceCourse, NamespaceLecture:
	default:
		return fmt.Errorf("unknown cache namespace: %s", namespace)
	}
	if entityID == "" {
		return fmt.Errorf("entity id cannot be empty")
	}
	// Ids are path components; anything with a separator would escape
	// the namespace.
	if entityID != filepath.Base(entityID) {
		return fmt.Errorf("invalid entity id: %s", entityID)
	}
	return nil
}
