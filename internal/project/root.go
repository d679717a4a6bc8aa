package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ManifestName is the project manifest file name.
const ManifestName = "stcss.toml"

// FindManifest walks up from startDir to the first directory holding a
// regular stcss.toml file. A directory named stcss.toml is skipped.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for ; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, ManifestName)
		st, statErr := os.Stat(candidate)
		switch {
		case statErr == nil && st.Mode().IsRegular():
			return candidate, true, nil
		case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
		}
		if filepath.Dir(dir) == dir {
			return "", false, nil
		}
	}
}

// FindProjectRoot returns the directory containing stcss.toml, if any.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifestPath), true, nil
}
