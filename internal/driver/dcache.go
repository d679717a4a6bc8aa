package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"stcss/internal/diag"
	"stcss/internal/project"
	"stcss/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит скомпилированный CSS по ModuleHash на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one compiled stylesheet.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path       string
	Namespace  string
	ModuleHash project.Digest // content + path + all imports, transitively

	CSS string

	// Diagnostics reported while linking the sheet (spans are file-local).
	Diagnostics []DiskDiagnostic
}

// DiskDiagnostic is a diagnostic with its file id stripped.
type DiskDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Word     string
	Start    uint32
	End      uint32
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir is the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	// подкаталог "sheets" для удобства очистки
	return filepath.Join(c.dir, "sheets", key.Hex()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return fmt.Errorf("encode %s: %w", payload.Path, err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload. A payload written by another schema
// version counts as a miss.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key.Hex(), err)
	}
	if out.Schema != diskCacheSchemaVersion || out.ModuleHash != key {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached sheet.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог, потом удалим: параллельный Get увидит промах, а не полуудалённый файл
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func toDiskDiagnostics(items []*diag.Diagnostic) []DiskDiagnostic {
	if len(items) == 0 {
		return nil
	}
	out := make([]DiskDiagnostic, len(items))
	for i, d := range items {
		out[i] = DiskDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Word:     d.Word,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
	}
	return out
}

func fromDiskDiagnostics(file source.FileID, items []DiskDiagnostic) []*diag.Diagnostic {
	out := make([]*diag.Diagnostic, len(items))
	for i, d := range items {
		out[i] = &diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Message,
			Word:     d.Word,
			Primary:  source.Span{File: file, Start: d.Start, End: d.End},
		}
	}
	return out
}
