package audio

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Cache keeps synthesised pronunciations on disk so the same word spoken
// with the same settings is only paid for once. A nil *Cache is valid and
// never hits.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir, or nil when dir is empty.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Path maps text, the provider settings and the file extension to a
// location inside the cache. Entries are sharded by the first two hex
// characters of the key.
func (c *Cache) Path(ext string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	key := hex.EncodeToString(h.Sum(nil))
	if ext == "" {
		ext = ".mp3"
	}
	return filepath.Join(c.dir, key[:2], key[2:]+strings.ToLower(ext))
}

// Lookup copies a cached entry to outputFile and reports whether it existed.
func (c *Cache) Lookup(outputFile string, parts ...string) bool {
	if c == nil {
		return false
	}
	src := c.Path(filepath.Ext(outputFile), parts...)
	if _, err := os.Stat(src); err != nil {
		return false
	}
	return copyFile(src, outputFile) == nil
}

// Store saves outputFile under the key. Failures only cost a future miss.
func (c *Cache) Store(outputFile string, parts ...string) {
	if c == nil {
		return
	}
	_ = copyFile(outputFile, c.Path(filepath.Ext(outputFile), parts...))
}

func copyFile(src, dst string) error {
	if err := ensureDir(dst); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func ensureDir(file string) error {
	dir := filepath.Dir(file)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
