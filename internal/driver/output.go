package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"stcss/internal/meta"
)

// OutputPath maps a source path under srcDir to its compiled path under
// outDir: a.st.css becomes a.css. Sources outside srcDir keep only their base
// name.
func OutputPath(path, srcDir, outDir string) string {
	rel, err := filepath.Rel(srcDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(path)
	}
	switch {
	case strings.HasSuffix(rel, meta.Extension):
		rel = strings.TrimSuffix(rel, meta.Extension)
	default:
		rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	}
	return filepath.Join(outDir, rel+".css")
}

// WriteOutputs writes the CSS of every file without errors. A failed write
// does not stop the others; all failures are returned together.
func WriteOutputs(files []*FileResult, srcDir, outDir string) (written []string, err error) {
	for _, fr := range files {
		if !fr.Output || fr.Meta == nil || fr.HasErrors() {
			continue
		}
		dst := OutputPath(fr.Path, srcDir, outDir)
		if mkErr := os.MkdirAll(filepath.Dir(dst), 0o755); mkErr != nil {
			err = multierr.Append(err, fmt.Errorf("create %s: %w", filepath.Dir(dst), mkErr))
			continue
		}
		if wErr := os.WriteFile(dst, []byte(fr.CSS), 0o644); wErr != nil {
			err = multierr.Append(err, fmt.Errorf("write %s: %w", dst, wErr))
			continue
		}
		written = append(written, dst)
	}
	return written, err
}
