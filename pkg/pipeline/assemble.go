package pipeline

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/barnhunt/barnhunt/pkg/observability"
)

// group collects pages by output path. Groups are ordered by their last
// page, and pages within a group by sequence number.
func group(pages []*Page) [][]*Page {
	byOutput := make(map[string][]*Page)
	for _, p := range pages {
		byOutput[p.Output] = append(byOutput[p.Output], p)
	}

	groups := make([][]*Page, 0, len(byOutput))
	for _, g := range byOutput {
		slices.SortFunc(g, func(a, b *Page) int { return cmp.Compare(a.Seq, b.Seq) })
		groups = append(groups, g)
	}
	slices.SortFunc(groups, func(a, b []*Page) int {
		return cmp.Compare(a[len(a)-1].Seq, b[len(b)-1].Seq)
	})
	return groups
}

// assemble merges converted pages into their output files.
func (r *Runner) assemble(ctx context.Context, pages []*Page) ([]Output, error) {
	hooks := observability.Pipeline()
	var outputs []Output
	for _, g := range group(pages) {
		if err := ctx.Err(); err != nil {
			return outputs, err
		}
		out := Output{Path: g[0].Output}
		files := make([]string, len(g))
		for i, p := range g {
			files[i] = p.file
			out.Pages = append(out.Pages, p.Description)
		}

		start := time.Now()
		err := r.Merger.Merge(ctx, files, out.Path)
		hooks.OnMergeComplete(ctx, out.Path, len(files), time.Since(start), err)
		if err != nil {
			return outputs, err
		}
		r.Logger.Info("wrote pdf", "file", out.Path, "pages", len(files))
		outputs = append(outputs, out)
	}
	return outputs, nil
}
