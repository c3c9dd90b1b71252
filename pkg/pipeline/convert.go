package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/barnhunt/barnhunt/pkg/cache"
	"github.com/barnhunt/barnhunt/pkg/errors"
	"github.com/barnhunt/barnhunt/pkg/observability"
)

// convert exports p to its page file, using the cache when possible. hit
// reports whether the page came from the cache.
func (r *Runner) convert(ctx context.Context, p *Page, opts Options) (hit bool, err error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnConvertStart(ctx, p.Description)
	defer func() {
		hooks.OnConvertComplete(ctx, p.Description, time.Since(start), err)
	}()

	key := r.Keyer.PageKey(cache.Hash(p.SVG), cache.PageKeyOpts{
		Converter: r.Converter.Name(),
		Format:    PageFormat,
	})

	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "page")
			if err := os.WriteFile(p.file, data, 0o600); err != nil {
				return false, err
			}
			p.SVG = nil
			r.Logger.Debug("cached view", "view", p.Description, "file", p.Document)
			return true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "page")
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Converter.ExportPDF(ctx, p.SVG, p.file)
	})
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeConverter, err, "export")
		}
		return false, &errors.DocumentError{Path: p.Document, Err: fmt.Errorf("view %q: %w", p.Description, err)}
	}
	p.SVG = nil

	if data, err := os.ReadFile(p.file); err == nil {
		if err := r.Cache.Set(ctx, key, data, DefaultPageTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "page", len(data))
		}
	}

	r.Logger.Debug("converted view", "view", p.Description, "file", p.Document, "duration", time.Since(start))
	return false, nil
}

func pageFile(dir string, seq int) string {
	return filepath.Join(dir, fmt.Sprintf("page-%05d.pdf", seq))
}
