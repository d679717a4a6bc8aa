package buildpipeline

import (
	"path/filepath"
	"sort"
	"strings"
)

// DisplayFiles turns absolute stylesheet paths into the sorted, deduplicated,
// base-relative names shown in progress output.
func DisplayFiles(files []string, baseDir string) []string {
	return normalizeProgressFiles(files, baseDir)
}

// FilterUnder keeps the files located under root.
func FilterUnder(files []string, root string) []string {
	return filterFilesUnderRoot(files, root)
}

func filterFilesUnderRoot(files []string, root string) []string {
	if len(files) == 0 || strings.TrimSpace(root) == "" {
		return files
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return files
	}
	absRoot = filepath.Clean(absRoot)
	prefix := absRoot + string(filepath.Separator)
	filtered := make([]string, 0, len(files))
	for _, file := range files {
		if file == "" {
			continue
		}
		absFile, err := filepath.Abs(file)
		if err != nil {
			continue
		}
		absFile = filepath.Clean(absFile)
		if absFile == absRoot || strings.HasPrefix(absFile, prefix) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

func normalizeProgressFiles(files []string, baseDir string) []string {
	if len(files) == 0 {
		return files
	}
	normalized := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))

	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}

	for _, file := range files {
		if file == "" {
			continue
		}
		path := filepath.Clean(file)
		if base != "" {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
		path = filepath.ToSlash(path)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		normalized = append(normalized, path)
	}
	sort.Strings(normalized)
	return normalized
}
