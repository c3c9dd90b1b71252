package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/barnhunt/barnhunt/pkg/cache"
	"github.com/barnhunt/barnhunt/pkg/render"
	"github.com/barnhunt/barnhunt/pkg/template"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	Converter render.Converter
	Merger    render.Merger
	Expander  *template.Expander
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The converter defaults to one inkscape process per page and the merger
// to pdfcpu; both may be replaced before calling Run.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		Converter: render.NewInkscape("", logger),
		Merger:    render.NewPDFMerger(),
		Expander:  template.NewExpander(logger),
	}
}

// Run processes opts.Files and writes the resulting PDF files.
//
// A drawing that cannot be loaded is skipped: the other drawings are still
// converted and written, and the returned error joins every skipped drawing
// (each an *errors.DocumentError) alongside the non-nil result. A failed
// conversion aborts the whole run and no output files are written.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	namer, err := template.NewNamer(opts.BasenameTemplate)
	if err != nil {
		return nil, fmt.Errorf("basename template: %w", err)
	}

	workdir, err := os.MkdirTemp("", "barnhunt-pages-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(workdir)

	r.Logger.Debug("starting pipeline", "options", opts.String())
	result := &Result{}

	// Stages 1 and 2: Load and Convert, overlapped
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Processes)

	var (
		pages []*Page
		mu    sync.Mutex
	)
	failed, loadErr := r.load(gctx, opts, namer, func(p *Page) {
		p.Seq = len(pages)
		p.file = pageFile(workdir, p.Seq)
		pages = append(pages, p)
		g.Go(func() error {
			hit, err := r.convert(gctx, p, opts)
			if hit {
				mu.Lock()
				result.Stats.CacheHits++
				mu.Unlock()
			}
			return err
		})
	}, &result.Stats)
	if loadErr != nil {
		cancel()
	}
	convErr := g.Wait()
	switch {
	case convErr != nil && !stderrors.Is(convErr, context.Canceled):
		return nil, convErr
	case loadErr != nil:
		return nil, loadErr
	case convErr != nil:
		return nil, convErr
	}
	result.Stats.Views = len(pages)
	result.Failed = failed
	result.Stats.ConvertTime = time.Since(start)

	r.Logger.Info("converted views",
		"views", len(pages),
		"cached", result.Stats.CacheHits,
		"duration", time.Since(start))

	// Stage 3: Assemble
	mergeStart := time.Now()
	outputs, err := r.assemble(ctx, pages)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	result.Outputs = outputs
	result.Stats.MergeTime = time.Since(mergeStart)

	r.Logger.Info("wrote outputs",
		"files", len(outputs),
		"duration", result.Stats.MergeTime)

	if len(failed) > 0 {
		return result, fmt.Errorf("%d of %d drawings failed: %w", len(failed), len(opts.Files), stderrors.Join(failed...))
	}
	return result, nil
}

// Close releases the converter.
func (r *Runner) Close() error {
	if r.Converter == nil {
		return nil
	}
	return r.Converter.Close()
}
