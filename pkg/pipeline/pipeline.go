// Package pipeline turns Inkscape course map drawings into PDF files.
//
// This package implements the complete load → convert → assemble pipeline
// used by the "barnhunt pdfs" command. It ties together layer detection,
// template expansion, view enumeration, materialization, page conversion
// and PDF assembly.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read each drawing, detect its layer convention, expand text
//     templates and enumerate its views. Every view gets a sequence number
//     that is global across all input files.
//  2. Convert: export each materialized view to a single PDF page. Pages are
//     converted concurrently (bounded by Options.Processes) and cached by the
//     hash of the materialized SVG.
//  3. Assemble: pages sharing an output path are concatenated, in sequence
//     order. Output files are written in order of their last page.
//
// Loading and conversion overlap: views are handed to the converters as
// soon as they are enumerated.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	runner.Converter = render.NewShellInkscape("", 0, logger)
//	defer runner.Close()
//	result, err := runner.Run(ctx, pipeline.Options{
//	    Files:     []string{"ring1.svg"},
//	    OutputDir: "out",
//	})
package pipeline

import (
	"fmt"
	"runtime"
	"time"

	"github.com/barnhunt/barnhunt/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and config
// =============================================================================

const (
	// DefaultOutputDir is where PDFs are written when no directory is given.
	DefaultOutputDir = "."

	// DefaultPageTTL is how long converted pages stay in the cache.
	DefaultPageTTL = 30 * 24 * time.Hour

	// PageFormat is the format pages are converted to.
	PageFormat = "pdf"
)

// DefaultProcesses returns the default number of concurrent conversions.
func DefaultProcesses() int {
	return runtime.NumCPU()
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Files are the drawings to process, in order.
	Files []string `json:"files"`

	// OutputDir is the directory PDF files are written to.
	OutputDir string `json:"output_directory,omitempty"`

	// Processes bounds the number of concurrent page conversions.
	Processes int `json:"processes,omitempty"`

	// RandomSeed seeds the rats() template function.
	RandomSeed int64 `json:"random_seed,omitempty"`

	// BasenameTemplate names views that carry no explicit output basename.
	// Empty selects template.DefaultBasenameTemplate.
	BasenameTemplate string `json:"basename_template,omitempty"`

	// Refresh ignores cached pages (new conversions are still stored).
	Refresh bool `json:"refresh,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result describes the output of a pipeline run.
type Result struct {
	// Outputs lists the files written, in the order they were written.
	Outputs []Output

	// Failed holds one error per drawing that was skipped.
	Failed []error

	// Stats contains timing and count information.
	Stats Stats
}

// Output is one written PDF file.
type Output struct {
	Path string
	// Pages are the descriptions of the views on each page, in page order.
	Pages []string
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Documents   int
	Views       int
	CacheHits   int
	LoadTime    time.Duration
	ConvertTime time.Duration
	MergeTime   time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateProcesses checks that n is a usable concurrency limit. Zero
// selects the default.
func ValidateProcesses(n int) error {
	if n < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid processes: %d (must be positive)", n)
	}
	return nil
}

// ValidateFiles checks that at least one input file is named.
func ValidateFiles(files []string) error {
	if len(files) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no input files")
	}
	for i, f := range files {
		if f == "" {
			return errors.New(errors.ErrCodeInvalidInput, "input file %d has an empty name", i+1)
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateFiles(o.Files); err != nil {
		return err
	}
	if err := ValidateProcesses(o.Processes); err != nil {
		return err
	}
	o.SetDefaults()
	o.validated = true
	return nil
}

// SetDefaults fills in zero-valued fields.
func (o *Options) SetDefaults() {
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Processes == 0 {
		o.Processes = DefaultProcesses()
	}
}

// String summarizes the options for log messages.
func (o *Options) String() string {
	return fmt.Sprintf("%d file(s) -> %s (processes=%d, seed=%d)", len(o.Files), o.OutputDir, o.Processes, o.RandomSeed)
}
