package render

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/barnhunt/barnhunt/pkg/errors"
)

// Merger concatenates PDF pages into one output file.
type Merger interface {
	Merge(ctx context.Context, pages []string, out string) error
}

// PDFMerger merges pages in-process with pdfcpu.
type PDFMerger struct {
	conf *model.Configuration
}

var disableConfigDir sync.Once

// NewPDFMerger returns a PDFMerger. pdfcpu's user configuration directory
// is never read or created.
func NewPDFMerger() *PDFMerger {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFMerger{conf: conf}
}

// Merge writes the concatenation of pages to out. Every page file must hold
// exactly one page. A single page is copied into place unchanged.
func (m *PDFMerger) Merge(ctx context.Context, pages []string, out string) error {
	if len(pages) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no pages to merge into %s", out)
	}
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := api.PageCountFile(p)
		if err != nil {
			return errors.Wrap(errors.ErrCodeConverter, err, "read page %s", p)
		}
		if n != 1 {
			return errors.New(errors.ErrCodeConverter, "page %s has %d pages, want 1", p, n)
		}
	}
	if err := EnsureDir(filepath.Dir(out)); err != nil {
		return err
	}
	if len(pages) == 1 {
		return copyFile(pages[0], out)
	}
	if err := api.MergeCreateFile(pages, out, false, m.conf); err != nil {
		return errors.Wrap(errors.ErrCodeConverter, err, "merge %d pages into %s", len(pages), out)
	}
	return nil
}
