package driver

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"stcss/internal/analyze"
	"stcss/internal/buildpipeline"
	"stcss/internal/fcache"
	"stcss/internal/feature"
	"stcss/internal/feature/builtin"
	"stcss/internal/meta"
	"stcss/internal/observ"
	"stcss/internal/source"
)

// Options configures a Session. Zero values are usable.
type Options struct {
	// BaseDir is the project root: namespaces and output paths are relative to it.
	BaseDir        string
	MaxDiagnostics int
	// Jobs limits parallel work; 0 means GOMAXPROCS.
	Jobs      int
	Logger    *zap.Logger
	Metrics   *observ.Metrics
	DiskCache *DiskCache
	Progress  buildpipeline.ProgressSink
	// FS overrides the file system the file cache reads through.
	FS fcache.FS
}

// Session compiles stylesheets. Analyses are kept between Compile calls and
// redone only for files whose modification time changed.
type Session struct {
	opts     Options
	log      *zap.Logger
	files    *source.FileSet
	registry *feature.Registry
	cache    *fcache.Cache[*meta.Meta]
}

// NewSession creates a session with the built-in feature registry.
func NewSession(opts Options) *Session {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = meta.DefaultMaxDiagnostics
	}
	s := &Session{
		opts:     opts,
		log:      observ.OrNop(opts.Logger).Named("driver"),
		files:    source.NewFileSetWithBase(opts.BaseDir),
		registry: builtin.Registry(),
	}
	s.cache = fcache.New(s.analyzeFile, opts.FS)
	return s
}

// FileSet returns every file version loaded by the session.
func (s *Session) FileSet() *source.FileSet { return s.files }

// Registry returns the feature registry used for analysis and transform.
func (s *Session) Registry() *feature.Registry { return s.registry }

// CacheStats reports in-memory analysis cache traffic.
func (s *Session) CacheStats() fcache.Stats { return s.cache.Stats() }

// analyzeFile is the file cache's process step.
func (s *Session) analyzeFile(path string, content []byte, modTime time.Time) (*meta.Meta, error) {
	start := time.Now()
	id := s.files.AddSource(path, content, modTime)
	m := meta.New(s.files.Get(id), meta.Options{
		BaseDir:        s.opts.BaseDir,
		MaxDiagnostics: s.opts.MaxDiagnostics,
	})
	analyze.Analyze(m, s.registry)
	m.Seal()
	dur := time.Since(start)
	s.opts.Metrics.ObservePhase(string(buildpipeline.StageAnalyze), dur)
	s.log.Debug("analyzed",
		zap.String("path", m.RelPath),
		zap.String("namespace", m.Namespace),
		zap.Int("diagnostics", m.Bag.Len()),
		zap.Duration("elapsed", dur))
	return m, nil
}

// ListSheets returns every *.st.css file under dir, sorted by path. Hidden
// directories and node_modules are skipped.
func ListSheets(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, meta.Extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list stylesheets in %s: %w", dir, err)
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
