package symbols

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/saint0x/jello/internal/types"
)

// Cache is an advisory, on-disk symbol-table cache keyed by an archive's
// mtime and size: as long as neither changes, a later link can skip
// re-running nm on it. It caches derived diagnostic data, never build
// output, and a nil *Cache is always a valid "no cache" value.
type Cache struct {
	dir string
}

type cacheEntry struct {
	ModTime int64
	Size    int64
	Symbols []types.Symbol
}

// OpenCache creates dir if needed and returns a Cache rooted there.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Stats reports the cache directory and how many entries it currently
// holds, for doctor's toolchain report. A nil Cache has zero entries and an
// empty directory.
func (c *Cache) Stats() (dir string, entries int) {
	if c == nil {
		return "", 0
	}
	des, err := os.ReadDir(c.dir)
	if err != nil {
		return c.dir, 0
	}
	for _, d := range des {
		if !d.IsDir() {
			entries++
		}
	}
	return c.dir, entries
}

func (c *Cache) pathFor(archivePath string) string {
	sum := sha256.Sum256([]byte(archivePath))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".mp")
}

// Get returns the cached symbol table for archivePath, and false if there
// is no entry or the file's mtime/size no longer match what was cached.
func (c *Cache) Get(archivePath string) ([]types.Symbol, bool) {
	if c == nil {
		return nil, false
	}
	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, false
	}
	f, err := os.Open(c.pathFor(archivePath))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var entry cacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, false
	}
	if entry.ModTime != info.ModTime().UnixNano() || entry.Size != info.Size() {
		return nil, false
	}
	return entry.Symbols, true
}

// Put records syms for archivePath under its current mtime and size, so a
// later Get invalidates automatically once the file is rebuilt.
func (c *Cache) Put(archivePath string, syms []types.Symbol) error {
	if c == nil {
		return nil
	}
	info, err := os.Stat(archivePath)
	if err != nil {
		return err
	}
	entry := cacheEntry{ModTime: info.ModTime().UnixNano(), Size: info.Size(), Symbols: syms}

	tmp, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := msgpack.NewEncoder(tmp).Encode(&entry); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, c.pathFor(archivePath))
}
