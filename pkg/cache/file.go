package cache

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// entryMagic starts every file written by FileCache. The expiry follows as
// Unix nanoseconds (0 for none), then a newline and the raw artifact.
const entryMagic = "texgraph-cache1 "

const entryExt = ".entry"

// FileCache stores artifacts as files under a directory, sharded by the
// first byte of the key hash. Writes go through a temp file and a rename so
// concurrent renders of the same scene never observe a partial artifact.
type FileCache struct {
	dir string
}

// NewFileCache creates dir if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) String() string { return "file:" + c.dir }

// Stats describes the entries on disk, expired ones included.
type Stats struct {
	Entries int
	Bytes   int64
}

// Stats walks the cache directory.
func (c *FileCache) Stats() (Stats, error) {
	var st Stats
	err := c.walk(func(path string, d fs.DirEntry) error {
		info, err := d.Info()
		if err != nil {
			return err
		}
		st.Entries++
		st.Bytes += info.Size()
		return nil
	})
	return st, err
}

// Clear removes every entry and returns how many were deleted.
func (c *FileCache) Clear() (int, error) {
	n := 0
	err := c.walk(func(path string, _ fs.DirEntry) error {
		if err := os.Remove(path); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func (c *FileCache) walk(fn func(path string, d fs.DirEntry) error) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != entryExt {
			return nil
		}
		return fn(path, d)
	})
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Get returns the artifact stored under key. Expired and unreadable entries
// are removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, expires, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && time.Now().After(expires)) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores data under key. A ttl of zero never expires.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encodeEntry(data, expires)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func encodeEntry(data []byte, expires time.Time) []byte {
	var ns int64
	if !expires.IsZero() {
		ns = expires.UnixNano()
	}
	buf := make([]byte, 0, len(entryMagic)+21+len(data))
	buf = append(buf, entryMagic...)
	buf = strconv.AppendInt(buf, ns, 10)
	buf = append(buf, '\n')
	return append(buf, data...)
}

func decodeEntry(raw []byte) (data []byte, expires time.Time, ok bool) {
	rest, found := bytes.CutPrefix(raw, []byte(entryMagic))
	if !found {
		return nil, time.Time{}, false
	}
	head, body, found := bytes.Cut(rest, []byte{'\n'})
	if !found {
		return nil, time.Time{}, false
	}
	ns, err := strconv.ParseInt(string(head), 10, 64)
	if err != nil {
		return nil, time.Time{}, false
	}
	if ns != 0 {
		expires = time.Unix(0, ns)
	}
	return body, expires, true
}

var _ Cache = (*FileCache)(nil)
