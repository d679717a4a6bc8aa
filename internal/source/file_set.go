package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
)

// FileSet manages a collection of stylesheets and resolves byte offsets into positions.
// Safe for concurrent use: the driver loads files from several goroutines.
type FileSet struct {
	mu      sync.RWMutex
	files   []*File
	index   map[string]FileID // path -> latest id
	baseDir string            // базовая директория для относительных путей
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   make([]*File, 0),
		index:   make(map[string]FileID),
		baseDir: baseDir,
	}
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.mu.Lock()
	fileSet.baseDir = dir
	fileSet.mu.Unlock()
}

// BaseDir возвращает текущую базовую директорию.
func (fileSet *FileSet) BaseDir() string {
	fileSet.mu.RLock()
	base := fileSet.baseDir
	fileSet.mu.RUnlock()
	if base == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return base
}

// Add stores already normalized bytes, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists:
// older versions stay addressable for diagnostics that still point into them.
func (fileSet *FileSet) Add(path string, content []byte, modTime time.Time, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, &File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		ModTime: modTime,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// AddSource normalizes raw stylesheet bytes (BOM, CRLF, NFC) and calls Add.
func (fileSet *FileSet) AddSource(path string, raw []byte, modTime time.Time) FileID {
	content, hadBOM := removeBOM(raw)
	content, hadCRLF := normalizeCRLF(content)
	content, hadNFC := normalizeNFC(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	if hadNFC {
		flags |= FileNormalizedNFC
	}
	return fileSet.Add(path, content, modTime, flags)
}

// Load reads a file from disk and registers it through AddSource.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.AddSource(path, content, info.ModTime()), nil
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, time.Time{}, FileVirtual)
}

// AddMissing registers an empty placeholder so that load failures can carry a span.
func (fileSet *FileSet) AddMissing(path string) FileID {
	return fileSet.Add(path, nil, time.Time{}, FileMissing)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return fileSet.files[id]
}

// Len returns the number of registered file versions.
func (fileSet *FileSet) Len() int {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// GetByPath возвращает последнюю версию файла по пути.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return fileSet.files[id], true
	}
	return nil, false
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{Line: 1, Col: 1}, LineCol{Line: 1, Col: 1}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lenLineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}
	if lineNum-1 < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}
	if start > lenContent {
		return ""
	}
	return string(f.Content[start:min(end, lenContent)])
}

// Text returns the source text covered by span, clamped to the file bounds.
func (f *File) Text(span Span) string {
	n := len(f.Content)
	start, end := min(int(span.Start), n), min(int(span.End), n)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath форматирует путь к файлу в зависимости от режима.
// mode: "absolute", "relative", "basename", "auto"
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path
	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path
	case "basename":
		return BaseName(f.Path)
	case "auto":
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)
	default:
		return f.Path
	}
}
