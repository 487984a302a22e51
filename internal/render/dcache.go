package render

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"cascade/internal/geom"
)

// Bump when the payload layout changes; stale entries decode-fail or
// mismatch and are treated as misses.
const diskCacheSchemaVersion uint16 = 1

// DiskCache persists rendered geometry per content hash under the user
// cache dir, so a re-run skips tessellation for unchanged subtrees.
// Thread-safe; a nil *DiskCache is a valid no-op.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// diskPayload is the serialized form of one cached geometry.
type diskPayload struct {
	Schema uint16
	Dim    uint8
	Poly   geom.PolygonSet
	Mesh   geom.Mesh
}

// OpenDiskCache initializes the cache at the standard location
// ($XDG_CACHE_HOME or ~/.cache, under app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes the cache at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "geo", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically writes one geometry.
func (c *DiskCache) Put(key Digest, g *geom.Geometry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := diskPayload{Schema: diskCacheSchemaVersion, Dim: uint8(g.Dim)}
	if g.Dim == geom.Dim2D {
		payload.Poly = g.Poly
	} else {
		payload.Mesh = g.Mesh
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads one geometry; ok=false on miss or schema mismatch.
func (c *DiskCache) Get(key Digest) (*geom.Geometry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	if geom.Dim(payload.Dim) == geom.Dim2D {
		return geom.From2D(payload.Poly), true, nil
	}
	return geom.From3D(payload.Mesh), true, nil
}

// DropAll invalidates everything, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
