package cache

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// entrySuffix marks the files a FileCache owns inside its directory.
const entrySuffix = ".entry"

// FileCache keeps one file per entry below a directory, fanned out by the
// first two hex digits of the key digest. An entry file is a header line
// "<expiry>\t<key>\n" followed by the raw artifact bytes; the expiry is
// RFC 3339 or "-" for entries that never expire.
type FileCache struct {
	dir   string
	clock clockwork.Clock
}

// FileOption configures a FileCache.
type FileOption func(*FileCache)

// WithClock sets the clock entries expire against.
func WithClock(c clockwork.Clock) FileOption {
	return func(fc *FileCache) { fc.clock = c }
}

// NewFileCache opens a cache in dir, creating it when needed.
func NewFileCache(dir string, opts ...FileOption) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	c := &FileCache{dir: dir, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DefaultDir is emberview's directory under the user cache directory.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "emberview"), nil
}

func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	expires, stored, data, ok := decodeEntry(raw)
	stale := ok && !expires.IsZero() && c.clock.Now().After(expires)
	if !ok || stale {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if stored != key {
		// digest collision: the file belongs to another key
		return nil, false, nil
	}
	return data, true, nil
}

func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = c.clock.Now().Add(ttl)
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	// each writer gets its own temp file so concurrent sets never share one
	f, err := os.CreateTemp(filepath.Dir(path), "*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(encodeEntry(expires, key, data))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0o644)
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every entry file and reports how many it removed. Other
// files in the directory are left alone.
func (c *FileCache) Clear(ctx context.Context) (int, error) {
	removed := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil
		case err != nil:
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		case d.IsDir() || !strings.HasSuffix(path, entrySuffix):
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	name := digest(key)
	return filepath.Join(c.dir, name[:2], name[2:]+entrySuffix)
}

func encodeEntry(expires time.Time, key string, data []byte) []byte {
	stamp := "-"
	if !expires.IsZero() {
		stamp = expires.UTC().Format(time.RFC3339Nano)
	}
	var b bytes.Buffer
	b.Grow(len(stamp) + len(key) + len(data) + 2)
	b.WriteString(stamp)
	b.WriteByte('\t')
	b.WriteString(key)
	b.WriteByte('\n')
	b.Write(data)
	return b.Bytes()
}

// decodeEntry splits an entry file. ok is false when the header is
// malformed.
func decodeEntry(raw []byte) (expires time.Time, key string, data []byte, ok bool) {
	header, data, found := bytes.Cut(raw, []byte{'\n'})
	if !found {
		return time.Time{}, "", nil, false
	}
	stamp, key, found := strings.Cut(string(header), "\t")
	if !found {
		return time.Time{}, "", nil, false
	}
	if stamp != "-" {
		var err error
		if expires, err = time.Parse(time.RFC3339Nano, stamp); err != nil {
			return time.Time{}, "", nil, false
		}
	}
	return expires, key, data, true
}

var (
	_ Cache   = (*FileCache)(nil)
	_ Clearer = (*FileCache)(nil)
)
