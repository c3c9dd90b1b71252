// Package pkg provides the libraries behind the barnhunt course map tool.
//
// # Overview
//
// Barnhunt turns layered Inkscape drawings into printable course maps. Each
// drawing holds a base map plus overlay layers; every combination of
// overlays chosen along a path through the layer tree is one view, and each
// view becomes one PDF page. The pkg directory is organized as:
//
//  1. [svg] - Element tree helpers (namespaces, layers, materialization)
//  2. [css] - Inline style parsing for layer visibility
//  3. [layers] - Layer classification under the explicit and legacy conventions
//  4. [coursemaps] - View enumeration and template contexts
//  5. [template] - Text templates, output naming and rat counts
//  6. [render] - SVG to PDF conversion and page merging
//  7. [pipeline] - Orchestration (load → convert → assemble)
//  8. [cache], [config], [errors], [observability], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow through barnhunt:
//
//	Inkscape drawing
//	         ↓
//	    [layers] package (detect convention, classify layers)
//	         ↓
//	    [template] package (expand text templates)
//	         ↓
//	    [coursemaps] package (enumerate views)
//	         ↓
//	    [svg] package (materialize each view)
//	         ↓
//	    [render] package (export pages, merge into PDF files)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	defer runner.Close()
//	result, err := runner.Run(ctx, pipeline.Options{
//	    Files:     []string{"ring1.svg"},
//	    OutputDir: "maps",
//	})
package pkg
