package driver

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"shady/internal/config"
	"shady/internal/diag"
	"shady/internal/ir"
	"shady/internal/irtext"
	"shady/internal/observ"
	"shady/internal/source"
	"shady/internal/trace"
	"shady/internal/version"
)

// Options configures a Check run.
type Options struct {
	Config config.Config
	// Jobs overrides Config.Driver.Jobs when positive.
	Jobs int
	// Cache, when set, is consulted before building and updated after.
	Cache    *DiskCache
	Progress ProgressSink
	// Timings appends an ObsTimings diagnostic to every unit.
	Timings bool
	// KeepArenas leaves each unit's arena alive for the caller, who must
	// call Result.Release. Kept units never read from the cache.
	KeepArenas bool
	// AfterPass runs after every pass that completed.
	AfterPass func(ctx context.Context, u *Unit, pass string) error
	// Rewrite is handed to ir.NewRewriter by the rewrite pass.
	Rewrite ir.RewriteFunc
}

// Unit is one input file and everything the pipeline produced for it.
type Unit struct {
	Path   string
	Lang   Language
	File   *source.File
	Arena  *ir.Arena // nil once released or when the unit came from the cache
	Module *irtext.Module
	Bag    *diag.Bag
	Timer  *observ.Timer
	Nodes  int
	Stats  ir.TableStats
	Cached bool

	loaded      bool
	rep         *diag.DedupReporter
	spans       map[ir.NodeID]source.Span
	rewriteHook ir.RewriteFunc
}

func (u *Unit) reporter() diag.Reporter {
	if u.rep == nil {
		u.rep = diag.NewDedupReporter(diag.BagReporter{Bag: u.Bag})
	}
	return u.rep
}

func (u *Unit) fileSpan() source.Span { return source.Span{File: u.File.ID} }

// spanOf returns where id was bound in the source, or the file start for
// nodes that were never named.
func (u *Unit) spanOf(id ir.NodeID) source.Span {
	if u.spans == nil && u.Module != nil {
		u.spans = make(map[ir.NodeID]source.Span, len(u.Module.Names))
		for name, nid := range u.Module.Names {
			if sp, ok := u.Module.Defs[name]; ok {
				u.spans[nid] = sp
			}
		}
	}
	if sp, ok := u.spans[id]; ok {
		return sp
	}
	return u.fileSpan()
}

// Result holds the units of one Check run, in input order.
type Result struct {
	FileSet *source.FileSet
	Units   []*Unit
}

// Bag merges the diagnostics of every unit, sorted.
func (r *Result) Bag() *diag.Bag {
	out := diag.NewBag(0)
	for _, u := range r.Units {
		out.Merge(u.Bag)
	}
	out.Sort()
	return out
}

func (r *Result) HasErrors() bool {
	for _, u := range r.Units {
		if u.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Release destroys every arena still held by a unit.
func (r *Result) Release() {
	for _, u := range r.Units {
		u.release()
	}
}

func (u *Unit) release() {
	if u.Arena != nil {
		u.Arena.Destroy()
		u.Arena = nil
	}
}

type run struct {
	opts        Options
	passes      []Pass
	fingerprint config.Digest
	maxDiags    int
}

// Check loads every path, builds it into its own arena and runs the
// configured passes. Files are processed concurrently. Problems with the
// inputs become diagnostics; the error is reserved for configuration
// mistakes and cancellation.
func Check(ctx context.Context, paths []string, opts Options) (*Result, error) {
	passes, err := ResolvePasses(opts.Config.Driver.Passes)
	if err != nil {
		return nil, err
	}
	r := &run{
		opts:        opts,
		passes:      passes,
		fingerprint: opts.Config.Fingerprint(),
		maxDiags:    opts.Config.Driver.MaxDiagnostics,
	}
	if r.maxDiags <= 0 {
		r.maxDiags = config.Default().Driver.MaxDiagnostics
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx)).
		WithExtra("files", fmt.Sprint(len(paths)))
	defer span.End("")
	ctx = trace.WithSpanContext(ctx, span.Context())

	fileSet := source.NewFileSet()
	if root := opts.Config.Root(); root != "" {
		fileSet.SetBaseDir(root)
	}
	res := &Result{FileSet: fileSet, Units: make([]*Unit, len(paths))}
	for i, path := range paths {
		res.Units[i] = r.load(fileSet, path)
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = opts.Config.Driver.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, u := range res.Units {
		if !u.loaded {
			emit(opts.Progress, Event{File: u.Path, Stage: StageLoad, Status: StatusError})
			continue
		}
		g.Go(func() error {
			return r.checkUnit(gctx, u)
		})
	}
	if err := g.Wait(); err != nil {
		res.Release()
		return nil, err
	}
	return res, nil
}

// load reads path into fileSet. Files that cannot be handled are added as
// empty virtual files so their diagnostics still have a location.
func (r *run) load(fileSet *source.FileSet, path string) *Unit {
	u := &Unit{
		Path:        path,
		Lang:        GuessLanguage(path),
		Bag:         diag.NewBag(r.maxDiags),
		Timer:       observ.NewTimer(),
		rewriteHook: r.opts.Rewrite,
	}
	if !u.Lang.Available() {
		u.File = fileSet.Get(fileSet.AddVirtual(path, nil))
		msg := fmt.Sprintf("%s: unrecognized input format", path)
		if u.Lang != LangUnknown {
			msg = fmt.Sprintf("%s: no front-end for %s input", path, u.Lang)
		}
		diag.ReportError(u.reporter(), diag.IOUnsupportedLanguage, u.fileSpan(), msg).Emit()
		return u
	}

	idx := u.Timer.Begin("load")
	id, err := fileSet.Load(path)
	u.Timer.End(idx, "")
	if err != nil {
		u.File = fileSet.Get(fileSet.AddVirtual(path, nil))
		diag.ReportError(u.reporter(), diag.IOLoadFileError, u.fileSpan(), err.Error()).Emit()
		return u
	}
	u.File = fileSet.Get(id)
	u.loaded = true
	return u
}

func (r *run) checkUnit(ctx context.Context, u *Unit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeModule, "unit", trace.CurrentSpan(ctx).InUnit(u.Path))
	ctx = trace.WithSpanContext(ctx, span.Context())
	start := time.Now()

	key := r.cacheKey(u.File)
	if r.opts.Cache != nil && !r.opts.KeepArenas {
		var payload DiskPayload
		hit, err := r.opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			diag.ReportWarning(u.reporter(), diag.IOCacheError, u.fileSpan(), "cache read failed: "+err.Error()).Emit()
		case hit:
			payload.restore(u)
			r.finish(u, start)
			span.End("cached")
			emit(r.opts.Progress, Event{File: u.Path, Stage: StagePasses, Status: StatusCached, Elapsed: time.Since(start)})
			return nil
		}
	}

	u.Arena = ir.NewArena(r.opts.Config.IRConfig(), ir.WithTracer(tracer))
	textOpts := irtext.Options{Reporter: u.reporter(), MaxErrors: r.maxDiags}

	emit(r.opts.Progress, Event{File: u.Path, Stage: StageParse, Status: StatusWorking})
	idx := u.Timer.Begin("parse")
	file := irtext.ParseFile(u.File, textOpts)
	u.Timer.End(idx, fmt.Sprintf("%d items", len(file.Items)))

	emit(r.opts.Progress, Event{File: u.Path, Stage: StageBuild, Status: StatusWorking})
	idx = u.Timer.Begin("build")
	u.Module = irtext.Build(u.Arena, file, textOpts)
	u.Timer.End(idx, fmt.Sprintf("%d nodes", u.Arena.Len()))

	// A partial graph would only produce follow-up noise.
	if !u.Bag.HasErrors() {
		emit(r.opts.Progress, Event{File: u.Path, Stage: StagePasses, Status: StatusWorking})
		if err := r.runPasses(ctx, u); err != nil {
			span.End(err.Error())
			return err
		}
	}

	u.Nodes = u.Arena.Len()
	u.Stats = u.Arena.Stats()
	if r.opts.Cache != nil {
		if err := r.opts.Cache.Put(key, unitPayload(u)); err != nil {
			diag.ReportWarning(u.reporter(), diag.IOCacheError, u.fileSpan(), "cache write failed: "+err.Error()).Emit()
		}
	}
	if !r.opts.KeepArenas {
		u.release()
	}
	r.finish(u, start)
	span.End("")

	status := StatusDone
	if u.Bag.HasErrors() {
		status = StatusError
	}
	emit(r.opts.Progress, Event{File: u.Path, Stage: StagePasses, Status: status, Elapsed: time.Since(start)})
	return nil
}

// runPasses stops at the first pass that fails. Only cancellation is
// returned; pass failures become diagnostics.
func (r *run) runPasses(ctx context.Context, u *Unit) error {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)
	for _, p := range r.passes {
		if err := ctx.Err(); err != nil {
			return err
		}
		span := trace.Begin(tracer, trace.ScopePass, p.Name(), parent)
		idx := u.Timer.Begin(p.Name())
		err := runPass(ctx, p, u)
		u.Timer.End(idx, "")
		span.End("")
		if err == nil && r.opts.AfterPass != nil {
			if hookErr := r.opts.AfterPass(ctx, u, p.Name()); hookErr != nil {
				err = fmt.Errorf("after %s: %w", p.Name(), hookErr)
			}
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			diag.ReportError(u.reporter(), diag.VerPassFailed, u.fileSpan(),
				fmt.Sprintf("pass %s failed: %v", p.Name(), err)).Emit()
			return nil
		}
	}
	return nil
}

// runPass turns an invariant panic inside a pass into an error.
func runPass(ctx context.Context, p Pass, u *Unit) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			inv, ok := rec.(*ir.InvariantError)
			if !ok {
				panic(rec)
			}
			err = inv
		}
	}()
	return p.Run(ctx, u)
}

func (r *run) finish(u *Unit, start time.Time) {
	if !r.opts.Timings {
		return
	}
	report := u.Timer.Report()
	if report.TotalMS == 0 {
		report.TotalMS = float64(time.Since(start)) / float64(time.Millisecond)
	}
	appendTimingDiagnostic(u.Bag, u.fileSpan(), timingPayload{
		Kind:    "unit",
		Path:    u.Path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	})
}

var versionDigest = config.Digest(sha256.Sum256([]byte(version.Version + "\x00" + version.GitCommit)))

// cacheKey binds a cached result to the file content, the settings that
// affect checking and the compiler build.
func (r *run) cacheKey(f *source.File) config.Digest {
	return config.Combine(config.Digest(f.Hash), r.fingerprint, versionDigest)
}

// ExpandPaths replaces each directory argument by the IR files below it,
// sorted. Other arguments are kept as given; missing files are reported when
// they are loaded.
func ExpandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if info, err := os.Stat(arg); err != nil || !info.IsDir() {
			out = append(out, arg)
			continue
		}
		files, err := listIRFiles(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

func listIRFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if GuessLanguage(path) == LangShadyIR {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}
