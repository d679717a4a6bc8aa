package source

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			continue
		}
		out = append(out, content[i])
	}
	return out, len(out) != len(content)
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// normalizeNFC приводит идентификаторы к одной форме: "é" из двух code point'ов
// и "é" из одного должны давать один и тот же символ в таблице.
func normalizeNFC(content []byte) ([]byte, bool) {
	if norm.NFC.IsNormal(content) {
		return content, false
	}
	return norm.NFC.Bytes(content), true
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("line offset overflow: %w", err))
			}
			out = append(out, off)
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// бинпоиск: число переводов строки строго до off
	line, _ := slices.BinarySearch(lineIdx, off)
	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}
	ln, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return LineCol{Line: ln, Col: off - startOff + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// NormalizePath exposes the canonical path form used as FileSet key.
func NormalizePath(p string) string {
	return normalizePath(p)
}

// BaseName returns the last element of the path.
func BaseName(p string) string {
	return filepath.Base(filepath.FromSlash(p))
}

// AbsolutePath returns the normalized absolute form of p.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(filepath.FromSlash(p))
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns p relative to base; paths outside base fall back to
// the absolute form.
func RelativePath(p, base string) (string, error) {
	absPath, err := AbsolutePath(p)
	if err != nil {
		return "", err
	}
	absBase, err := AbsolutePath(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(filepath.FromSlash(absBase), filepath.FromSlash(absPath))
	if err != nil {
		return absPath, nil
	}
	rel = normalizePath(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return absPath, nil
	}
	return rel, nil
}
