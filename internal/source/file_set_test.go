package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.AddVirtual("button.st.css", []byte(".root {}"))
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}
	latestID, exists := fs.GetLatest("button.st.css")
	if !exists || latestID != id1 {
		t.Fatalf("Expected latest ID %d, got %d (exists=%v)", id1, latestID, exists)
	}

	// Та же стилевая таблица после правки получает новый ID
	id2 := fs.AddVirtual("button.st.css", []byte(".root { color: red }"))
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}
	latestID, _ = fs.GetLatest("button.st.css")
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	// Старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != ".root {}" {
		t.Errorf("first version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 versions, got %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.st.css", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestAddSourceNormalization(t *testing.T) {
	tests := []struct {
		name  string
		raw   []byte
		want  string
		flags FileFlags
	}{
		{"crlf", []byte(".a {}\r\n.b {}\r\n"), ".a {}\n.b {}\n", FileNormalizedCRLF},
		{"lone cr kept", []byte(".a\r.b"), ".a\r.b", 0},
		{"bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte(".a {}")...), ".a {}", FileHadBOM},
		{"nfc", []byte(".cafe\u0301 {}"), ".caf\u00e9 {}", FileNormalizedNFC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFileSet()
			f := fs.Get(fs.AddSource("x.st.css", tt.raw, time.Time{}))
			if string(f.Content) != tt.want {
				t.Fatalf("content = %q, want %q", f.Content, tt.want)
			}
			if f.Flags != tt.flags {
				t.Fatalf("flags = %b, want %b", f.Flags, tt.flags)
			}
		})
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.st.css", []byte(".a {}\nButton {}\n  .b {}"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{5, LineCol{Line: 1, Col: 6}}, // сам '\n'
		{6, LineCol{Line: 2, Col: 1}},
		{18, LineCol{Line: 3, Col: 3}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLineAndText(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("l.st.css", []byte("first\nsecond\nthird")))

	if got := f.GetLine(2); got != "second" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "third" {
		t.Errorf("GetLine(3) = %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("GetLine(4) = %q, want empty", got)
	}
	if got := f.Text(Span{Start: 6, End: 12}); got != "second" {
		t.Errorf("Text = %q", got)
	}
	if got := f.Text(Span{Start: 15, End: 100}); got != "ird" {
		t.Errorf("clamped Text = %q", got)
	}
}

func TestLoadRecordsModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.st.css")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBF.root {}\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if !f.ModTime.Equal(stamp) {
		t.Errorf("ModTime = %v, want %v", f.ModTime, stamp)
	}
	if string(f.Content) != ".root {}\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&(FileHadBOM|FileNormalizedCRLF) != FileHadBOM|FileNormalizedCRLF {
		t.Errorf("flags = %b", f.Flags)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.st.css")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestAddMissingPlaceholder(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddMissing("gone.st.css")
	f := fs.Get(id)
	if !f.Has(FileMissing) || f.Has(FileVirtual|FileMissing) || len(f.Content) != 0 {
		t.Fatalf("unexpected placeholder %+v", f)
	}
	if fs.Get(id+1) != nil {
		t.Fatalf("out of range Get must return nil")
	}
}
