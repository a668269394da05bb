package inputs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Cache stores downloaded media on disk, one file per URL.
type Cache struct {
	dir string
}

// NewCache opens dir, creating it when needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory at %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// DefaultCache opens the media cache under the user cache directory.
func DefaultCache() (*Cache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return NewCache(filepath.Join(base, "goshaderfx", "media"))
}

// Dir is the directory holding the cache files.
func (c *Cache) Dir() string { return c.dir }

func (c *Cache) path(url string) string {
	return filepath.Join(c.dir, uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()+filepath.Ext(url))
}

// Get returns the cached body of url.
func (c *Cache) Get(url string) ([]byte, bool) {
	data, err := os.ReadFile(c.path(url))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) Put(url string, data []byte) error {
	return os.WriteFile(c.path(url), data, 0644)
}

// Remove drops url from the cache. Missing entries are not an error.
func (c *Cache) Remove(url string) error {
	err := os.Remove(c.path(url))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
