package source

import "time"

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
	// FileNormalizedNFC marks text rewritten into Unicode NFC form on load.
	FileNormalizedNFC
	// FileMissing marks a placeholder registered for a path that could not be read.
	FileMissing
)

// File captures metadata and content for a single stylesheet.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	ModTime time.Time // нулевое для виртуальных файлов
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Has reports whether every bit of flag is set.
func (f *File) Has(flag FileFlags) bool {
	return f != nil && f.Flags&flag == flag
}
