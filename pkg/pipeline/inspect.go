package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/barnhunt/barnhunt/pkg/template"
)

// Views loads opts.Files and returns every view in output order, without
// converting anything. Each page keeps its materialized SVG. As with Run,
// drawings that fail to load are skipped; the views of the others are
// returned together with an error joining the failures.
func (r *Runner) Views(ctx context.Context, opts Options) ([]*Page, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	namer, err := template.NewNamer(opts.BasenameTemplate)
	if err != nil {
		return nil, fmt.Errorf("basename template: %w", err)
	}

	var (
		pages []*Page
		stats Stats
	)
	failed, err := r.load(ctx, opts, namer, func(p *Page) {
		p.Seq = len(pages)
		pages = append(pages, p)
	}, &stats)
	if err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		return pages, stderrors.Join(failed...)
	}
	return pages, nil
}
