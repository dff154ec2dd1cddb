// Package scancache persists the result of a scan pass (internal/
// rewriter.ReadHeader and ScanMinOffsets) so a second run over an unchanged input file can
// skip re-reading the whole trace. Entries are keyed by a content hash
// of the input file and stored as metadata on a TileDB group, the same
// mechanism the teacher package uses to attach a processing manifest to
// its own array groups (see cmd/main.go's "Data-Processing-Information"
// group metadata entry).
package scancache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// ErrMiss is returned by Lookup when no cache entry exists for the given
// content hash.
var ErrMiss = errors.New("scancache: no entry for this content hash")

// Cache persists scan results as metadata entries on a TileDB group at
// a fixed URI, one entry per distinct input file content.
type Cache struct {
	ctx    *tiledb.Context
	grpURI string
}

// Open returns a Cache backed by the TileDB group at uri, creating the
// group if it does not already exist.
func Open(uri string) (*Cache, error) {
	config, err := tiledb.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("scancache: creating tiledb config: %w", err)
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, fmt.Errorf("scancache: creating tiledb context: %w", err)
	}

	c := &Cache{ctx: ctx, grpURI: uri}
	if err := c.ensureGroup(); err != nil {
		ctx.Free()
		return nil, err
	}
	return c, nil
}

func (c *Cache) ensureGroup() error {
	if objType, err := tiledb.ObjectType(c.ctx, c.grpURI); err == nil && objType == tiledb.TILEDB_GROUP {
		// Already exists, the common case on a second run.
		return nil
	}

	grp, err := tiledb.NewGroup(c.ctx, c.grpURI)
	if err != nil {
		return fmt.Errorf("scancache: opening group handle: %w", err)
	}
	defer grp.Free()

	if err := grp.Create(); err != nil {
		return fmt.Errorf("scancache: creating group at %s: %w", c.grpURI, err)
	}
	return nil
}

// Entry is the cached result of a scan pass: the minimum observed
// offsets, the anchor computed from them, and the header's original
// reference point (needed to re-anchor coordinates on a cache hit,
// since a hit skips re-reading the header).
type Entry struct {
	MinLongitude float64
	MinLatitude  float64
	AnchorLon    float64
	AnchorLat    float64
	OrigLon      float64
	OrigLat      float64
}

// ContentKey hashes the full contents of f, from its start whatever the
// current offset, into the metadata key Lookup/Store use, and restores
// f's offset afterward.
func ContentKey(f *os.File) (string, error) {
	start, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", fmt.Errorf("scancache: reading file offset: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("scancache: seeking to compute content key: %w", err)
	}
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("scancache: hashing file contents: %w", err)
	}
	if _, err := f.Seek(start, io.SeekStart); err != nil {
		return "", fmt.Errorf("scancache: restoring file offset: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Lookup returns the cached Entry for key, or ErrMiss if none exists.
func (c *Cache) Lookup(key string) (Entry, error) {
	grp, err := tiledb.NewGroup(c.ctx, c.grpURI)
	if err != nil {
		return Entry{}, fmt.Errorf("scancache: opening group handle: %w", err)
	}
	defer grp.Free()

	if err := grp.Open(tiledb.TILEDB_READ); err != nil {
		return Entry{}, fmt.Errorf("scancache: opening group for read: %w", err)
	}
	defer grp.Close()

	_, _, value, err := grp.GetMetadata(key)
	if err != nil {
		return Entry{}, ErrMiss
	}
	raw, ok := value.([]byte)
	if !ok {
		return Entry{}, fmt.Errorf("scancache: metadata entry %q has unexpected type %T", key, value)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, fmt.Errorf("scancache: decoding entry %q: %w", key, err)
	}
	return e, nil
}

// Store persists e under key, overwriting any existing entry.
func (c *Cache) Store(key string, e Entry) error {
	if _, err := recordDtypes(); err != nil {
		return fmt.Errorf("scancache: validating entry schema: %w", err)
	}

	grp, err := tiledb.NewGroup(c.ctx, c.grpURI)
	if err != nil {
		return fmt.Errorf("scancache: opening group handle: %w", err)
	}
	defer grp.Free()

	if err := grp.Open(tiledb.TILEDB_WRITE); err != nil {
		return fmt.Errorf("scancache: opening group for write: %w", err)
	}
	defer grp.Close()

	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("scancache: encoding entry %q: %w", key, err)
	}
	if err := grp.PutMetadata(key, raw); err != nil {
		return fmt.Errorf("scancache: writing entry %q: %w", key, err)
	}
	return nil
}

// Close releases the TileDB context.
func (c *Cache) Close() {
	c.ctx.Free()
}
