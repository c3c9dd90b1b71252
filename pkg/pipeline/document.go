package pipeline

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/barnhunt/barnhunt/pkg/cache"
	"github.com/barnhunt/barnhunt/pkg/coursemaps"
	"github.com/barnhunt/barnhunt/pkg/errors"
	"github.com/barnhunt/barnhunt/pkg/layers"
	"github.com/barnhunt/barnhunt/pkg/observability"
	"github.com/barnhunt/barnhunt/pkg/svg"
	"github.com/barnhunt/barnhunt/pkg/template"
)

// Page is one view of one drawing, on its way to becoming a PDF page.
type Page struct {
	// Seq orders pages across the whole run.
	Seq int
	// Document is the drawing the view came from.
	Document string
	// Description names the view, e.g. "Ring 1/Master".
	Description string
	// Output is the PDF file the page belongs to.
	Output string
	// Hidden lists the ids of the layers suppressed in this view.
	Hidden []string
	// SVG is the materialized view. It is released once converted.
	SVG []byte

	file string
}

// viewNamespaces are declared on every materialized view.
var viewNamespaces = map[string]string{
	"inkscape": svg.NamespaceInkscape,
	"bh":       svg.NamespaceBarnhunt,
}

// load enumerates the views of every input file, in order. The views of a
// drawing are passed to emit once the whole drawing has loaded, so a
// drawing that fails contributes no pages. Such failures are logged and
// returned; they do not stop the other files. Only cancellation ends the
// loop early.
func (r *Runner) load(ctx context.Context, opts Options, namer *template.Namer, emit func(*Page), stats *Stats) ([]error, error) {
	hooks := observability.Pipeline()
	var failed []error
	for _, path := range opts.Files {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		start := time.Now()
		hooks.OnDocumentStart(ctx, path)

		pages, err := r.loadDocument(ctx, path, opts, namer)
		d := time.Since(start)
		hooks.OnDocumentComplete(ctx, path, len(pages), d, err)
		if err != nil {
			if stderrors.Is(err, context.Canceled) {
				return failed, err
			}
			err = documentError(path, err)
			r.Logger.Error("skipping drawing", "file", path, "err", err)
			failed = append(failed, err)
			continue
		}

		stats.Documents++
		stats.LoadTime += d
		if len(pages) == 0 {
			r.Logger.Warn("no views found", "file", path)
			continue
		}
		for _, p := range pages {
			emit(p)
		}
		r.Logger.Info("loaded drawing", "file", path, "views", len(pages), "duration", d)
	}
	return failed, nil
}

// loadDocument processes one drawing and returns its views in order.
func (r *Runner) loadDocument(ctx context.Context, path string, opts Options, namer *template.Namer) ([]*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read drawing")
		}
		return nil, err
	}
	doc, err := svg.Parse(data)
	if err != nil {
		return nil, err
	}
	classifier, err := layers.Detect(doc.Root(), r.Logger)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("detected layer convention", "file", path, "convention", classifier.Convention)

	vars := DocumentVars(path, data, opts.RandomSeed)
	expanded := r.Expander.Expand(doc, classifier, vars)

	var pages []*Page
	en := coursemaps.NewEnumerator(classifier, vars)
	for vctx, hidden := range en.Views(expanded.Root()) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		desc := coursemaps.Describe(vctx)
		basename, err := namer.Basename(vctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "name view %q", desc)
		}
		out, err := svg.Bytes(svg.Materialize(expanded, hidden, viewNamespaces))
		if err != nil {
			return nil, err
		}
		pages = append(pages, &Page{
			Document:    path,
			Description: desc,
			Output:      filepath.Join(opts.OutputDir, filepath.FromSlash(basename)+".pdf"),
			Hidden:      hiddenIDs(hidden),
			SVG:         out,
		})
	}
	return pages, nil
}

// DocumentVars returns the template variables of the drawing at path with
// the given content.
func DocumentVars(path string, data []byte, randomSeed int64) coursemaps.Vars {
	name := filepath.Base(path)
	return coursemaps.Vars{
		coursemaps.VarRandomSeed: randomSeed,
		coursemaps.VarSVGFile:    cache.Hash(data),
		coursemaps.VarSVGName:    strings.TrimSuffix(name, filepath.Ext(name)),
	}
}

func hiddenIDs(hidden svg.ElementSet) []string {
	ids := make([]string, 0, len(hidden))
	for e := range hidden {
		if id := svg.LayerID(e); id != "" {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func documentError(path string, err error) error {
	var de *errors.DocumentError
	if stderrors.As(err, &de) || stderrors.Is(err, context.Canceled) {
		return err
	}
	return &errors.DocumentError{Path: path, Err: err}
}
