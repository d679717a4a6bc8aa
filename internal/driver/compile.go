package driver

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stcss/internal/buildpipeline"
	"stcss/internal/diag"
	"stcss/internal/fcache"
	"stcss/internal/feature/stimport"
	"stcss/internal/meta"
	"stcss/internal/observ"
	"stcss/internal/project"
	"stcss/internal/project/dag"
	"stcss/internal/resolve"
	"stcss/internal/source"
	"stcss/internal/transform"
)

// FileResult is the outcome for one stylesheet.
type FileResult struct {
	Path    string
	RelPath string
	// Meta is nil when the file could not be read.
	Meta *meta.Meta
	CSS  string
	Bag  *diag.Bag
	// Output is false for sheets loaded only because another sheet imports them.
	Output     bool
	Cached     bool // analysis reused from the in-memory cache
	DiskCached bool // CSS reused from the disk cache
	ModuleHash project.Digest
}

// HasErrors reports whether the file has error diagnostics.
func (f *FileResult) HasErrors() bool {
	return f.Bag.HasErrors()
}

// Result is the outcome of one Compile call.
type Result struct {
	Files   []*FileResult // requested files, sorted by path
	Deps    []*FileResult // imported files that were not requested
	Bag     *diag.Bag     // every diagnostic, sorted
	FileSet *source.FileSet
	Timing  observ.Report
	Timings buildpipeline.Timings

	resolver *resolve.Resolver
}

// HasErrors reports whether any file has error diagnostics.
func (r *Result) HasErrors() bool {
	return r.Bag.HasErrors()
}

// Exports lists the public class map of a compiled file.
func (r *Result) Exports(fr *FileResult) []resolve.Export {
	if fr == nil || fr.Meta == nil || r.resolver == nil {
		return nil
	}
	return r.resolver.Exports(fr.Meta)
}

// Lookup finds a result by absolute path among files and deps.
func (r *Result) Lookup(path string) (*FileResult, bool) {
	path = source.NormalizePath(path)
	for _, list := range [][]*FileResult{r.Files, r.Deps} {
		for _, f := range list {
			if f.Path == path {
				return f, true
			}
		}
	}
	return nil, false
}

// Compile analyzes, links and transforms paths. Sheets they import are loaded
// as well so that names resolve, but only requested sheets get CSS.
//
// Compile calls on one Session must not overlap.
func (s *Session) Compile(ctx context.Context, paths []string) (*Result, error) {
	timer := observ.NewTimer()
	res := &Result{FileSet: s.files}

	requested, err := s.normalize(paths)
	if err != nil {
		return nil, err
	}
	display := make([]string, len(requested))
	for i, p := range requested {
		display[i] = s.rel(p)
	}
	buildpipeline.EmitQueued(s.opts.Progress, display)

	idx := timer.Begin(string(buildpipeline.StageLoad))
	loaded, err := s.load(ctx, requested)
	if err != nil {
		return nil, err
	}
	res.Timings.Set(buildpipeline.StageLoad, timer.End(idx, fmt.Sprintf("%d files", len(loaded))))

	sheets := make([]*FileResult, 0, len(loaded))
	for _, fr := range loaded {
		sheets = append(sheets, fr)
	}
	slices.SortFunc(sheets, func(a, b *FileResult) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		}
		return 0
	})

	idx = timer.Begin(string(buildpipeline.StageLink))
	buildpipeline.EmitStage(s.opts.Progress, nil, buildpipeline.StageLink, buildpipeline.StatusWorking, nil, 0)
	s.link(sheets)
	linkDur := timer.End(idx, "")
	res.Timings.Set(buildpipeline.StageLink, linkDur)
	buildpipeline.EmitStage(s.opts.Progress, nil, buildpipeline.StageLink, buildpipeline.StatusDone, nil, linkDur)

	idx = timer.Begin(string(buildpipeline.StageTransform))
	res.resolver = s.newResolver(loaded)
	if err := s.transformAll(ctx, sheets, res.resolver); err != nil {
		return nil, err
	}
	res.Timings.Set(buildpipeline.StageTransform, timer.End(idx, ""))

	total := 0
	for _, fr := range sheets {
		if fr.Meta != nil {
			fr.Bag = fr.Meta.Bag
		}
		total += fr.Bag.Len()
		if fr.Output {
			res.Files = append(res.Files, fr)
			s.opts.Metrics.FileCompiled(fr.HasErrors())
		} else {
			res.Deps = append(res.Deps, fr)
		}
	}
	res.Bag = diag.NewBag(total + 1)
	for _, fr := range sheets {
		res.Bag.Merge(fr.Bag)
	}
	res.Bag.Dedup()
	res.Bag.Sort()
	for _, sev := range []diag.Severity{diag.SevInfo, diag.SevWarning, diag.SevError} {
		s.opts.Metrics.Diagnostics(sev.Label(), res.Bag.Count(sev))
	}
	res.Timing = timer.Report()
	s.log.Debug("compiled",
		zap.Int("requested", len(res.Files)),
		zap.Int("deps", len(res.Deps)),
		zap.Int("diagnostics", res.Bag.Len()),
		zap.Float64("total_ms", res.Timing.TotalMS))
	return res, nil
}

func (s *Session) normalize(paths []string) ([]string, error) {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := source.AbsolutePath(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		abs = source.NormalizePath(abs)
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}
	slices.Sort(out)
	return out, nil
}

func (s *Session) rel(path string) string {
	if s.opts.BaseDir == "" {
		return path
	}
	if rel, err := source.RelativePath(path, s.opts.BaseDir); err == nil {
		return rel
	}
	return path
}

// load reads requested files and then, wave by wave, the existing files they
// import. Imports of missing files are left for the resolver to report.
func (s *Session) load(ctx context.Context, requested []string) (map[string]*FileResult, error) {
	out := make(map[string]*FileResult, len(requested))
	wave := requested
	output := true
	for len(wave) > 0 {
		results := make([]*FileResult, len(wave))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.opts.Jobs)
		for i, path := range wave {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = s.loadOne(path, output)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, fr := range results {
			out[fr.Path] = fr
		}
		var next []string
		queued := make(map[string]struct{})
		for _, fr := range results {
			if fr.Meta == nil {
				continue
			}
			for _, imp := range stimport.Imports(fr.Meta) {
				if _, done := out[imp.From]; done {
					continue
				}
				if _, dup := queued[imp.From]; dup {
					continue
				}
				if _, err := s.fs().Stat(imp.From); err != nil {
					continue
				}
				queued[imp.From] = struct{}{}
				next = append(next, imp.From)
			}
		}
		slices.Sort(next)
		if len(next) > 0 {
			s.log.Debug("loading imported sheets", zap.Strings("paths", next))
		}
		wave = next
		output = false
	}
	return out, nil
}

func (s *Session) fs() fcache.FS {
	if s.opts.FS != nil {
		return s.opts.FS
	}
	return fcache.OSFS{}
}

func (s *Session) loadOne(path string, output bool) *FileResult {
	fr := &FileResult{Path: path, RelPath: s.rel(path), Output: output}
	buildpipeline.EmitFile(s.opts.Progress, fr.RelPath, buildpipeline.StageLoad, buildpipeline.StatusWorking, nil, 0)
	start := time.Now()

	m, hit, err := s.cache.Process(path)
	s.opts.Metrics.CacheLookup(observ.CacheMemory, hit)
	if err != nil {
		id := s.files.AddMissing(path)
		fr.Bag = diag.NewBag(s.opts.MaxDiagnostics)
		diag.ReportError(&diag.BagReporter{Bag: fr.Bag}, diag.IOLoadFileError, source.Span{File: id},
			fmt.Sprintf("failed to load file: %v", err)).
			WithWord(fr.RelPath).
			Emit()
		s.log.Debug("load failed", zap.String("path", fr.RelPath), zap.Error(err))
		buildpipeline.EmitFile(s.opts.Progress, fr.RelPath, buildpipeline.StageLoad, buildpipeline.StatusError, err, time.Since(start))
		return fr
	}
	m.ResetDiagnostics()
	fr.Meta = m
	fr.Cached = hit
	fr.Bag = m.Bag
	s.log.Debug("file ready", zap.String("path", fr.RelPath), zap.Bool("memory_hit", hit))

	status := buildpipeline.StatusDone
	if hit {
		status = buildpipeline.StatusCached
	}
	buildpipeline.EmitFile(s.opts.Progress, fr.RelPath, buildpipeline.StageAnalyze, status, nil, time.Since(start))
	return fr
}

// link builds the import graph, reports self imports and cycles, and fills
// in module hashes.
func (s *Session) link(sheets []*FileResult) {
	metas := make([]project.SheetMeta, 0, len(sheets))
	nodes := make([]dag.SheetNode, 0, len(sheets))
	for _, fr := range sheets {
		m := fr.Meta
		if m == nil {
			continue
		}
		sm := project.SheetMeta{
			Path:        m.Path,
			Span:        source.NewSpan(m.FileID(), 0, len(m.Source.Content)),
			ContentHash: contentDigest(m.RelPath, m.Source.Hash),
		}
		for _, imp := range stimport.Imports(m) {
			sm.Imports = append(sm.Imports, project.ImportMeta{Path: imp.From, Span: imp.Span})
		}
		metas = append(metas, sm)
		nodes = append(nodes, dag.SheetNode{Meta: sm, Reporter: diag.NewDedupReporter(m.Reporter)})
	}

	idx := dag.BuildIndex(metas)
	g, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(g)
	dag.ReportCycles(idx, slots, topo)
	ComputeSheetHashes(g, slots, topo)

	edges := 0
	for _, e := range g.Edges {
		edges += len(e)
	}
	s.log.Debug("import graph",
		zap.Int("sheets", len(metas)),
		zap.Int("edges", edges),
		zap.Int("batches", len(topo.Batches)),
		zap.Bool("cyclic", topo.Cyclic))

	for _, fr := range sheets {
		if id, ok := idx.Lookup(fr.Path); ok {
			fr.ModuleHash = slots[int(id)].Meta.ModuleHash
		}
	}
}

func (s *Session) newResolver(loaded map[string]*FileResult) *resolve.Resolver {
	return resolve.New(func(path string) (*meta.Meta, bool) {
		fr, ok := loaded[path]
		if !ok || fr.Meta == nil {
			return nil, false
		}
		return fr.Meta, true
	})
}

func (s *Session) transformAll(ctx context.Context, sheets []*FileResult, resolver *resolve.Resolver) error {

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Jobs)
	for _, fr := range sheets {
		if fr.Meta == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.transformOne(fr, resolver)
			return nil
		})
	}
	return g.Wait()
}

func (s *Session) transformOne(fr *FileResult, resolver *resolve.Resolver) {
	m := fr.Meta
	start := time.Now()
	useDisk := fr.Output && s.opts.DiskCache != nil && !fr.ModuleHash.IsZero()

	if useDisk {
		var payload DiskPayload
		ok, err := s.opts.DiskCache.Get(fr.ModuleHash, &payload)
		if err != nil {
			s.log.Named("dcache").Warn("disk cache read failed", zap.String("path", fr.RelPath), zap.Error(err))
		}
		s.opts.Metrics.CacheLookup(observ.CacheDisk, ok)
		if ok {
			for _, d := range fromDiskDiagnostics(m.FileID(), payload.Diagnostics) {
				m.Reporter.Report(d)
			}
			fr.CSS = payload.CSS
			fr.DiskCached = true
			s.opts.Metrics.OutputBytes(len(fr.CSS))
			buildpipeline.EmitFile(s.opts.Progress, fr.RelPath, buildpipeline.StageTransform, buildpipeline.StatusCached, nil, time.Since(start))
			return
		}
	}

	before := m.Bag.Len()
	resolver.ReportIssues(m)
	if !fr.Output {
		return
	}
	buildpipeline.EmitFile(s.opts.Progress, fr.RelPath, buildpipeline.StageTransform, buildpipeline.StatusWorking, nil, 0)
	fr.CSS = transform.Transform(m, s.registry, resolver)
	dur := time.Since(start)
	s.opts.Metrics.ObservePhase(string(buildpipeline.StageTransform), dur)
	s.opts.Metrics.OutputBytes(len(fr.CSS))
	s.log.Debug("transformed", zap.String("path", fr.RelPath), zap.Int("bytes", len(fr.CSS)), zap.Duration("elapsed", dur))

	if useDisk {
		payload := &DiskPayload{
			Path:        m.RelPath,
			Namespace:   m.Namespace,
			ModuleHash:  fr.ModuleHash,
			CSS:         fr.CSS,
			Diagnostics: toDiskDiagnostics(m.Bag.Items()[before:]),
		}
		if err := s.opts.DiskCache.Put(fr.ModuleHash, payload); err != nil {
			s.log.Named("dcache").Warn("disk cache write failed", zap.String("path", fr.RelPath), zap.Error(err))
		}
	}
	status := buildpipeline.StatusDone
	if m.Bag.HasErrors() {
		status = buildpipeline.StatusError
	}
	buildpipeline.EmitFile(s.opts.Progress, fr.RelPath, buildpipeline.StageTransform, status, nil, dur)
}
