// Package render turns materialized course map SVGs into PDF pages and
// assembles pages into output files.
//
// # Converters
//
// A [Converter] exports one SVG document to one PDF file. Three are
// provided:
//
//   - [NewInkscape] runs a fresh inkscape process per page.
//   - [NewShellInkscape] keeps "inkscape --shell" processes running and
//     feeds them one export command at a time. This is much faster for
//     drawings with many views. Each process serves one caller at a time;
//     concurrent callers get their own process.
//   - [NewRSVG] pipes the SVG through rsvg-convert. It is fast but does not
//     understand every Inkscape extension.
//
// [New] picks one from [Options]:
//
//	conv, err := render.New(render.Options{
//	    Converter: render.ConverterInkscape,
//	    ShellMode: true,
//	    Logger:    logger,
//	})
//	defer conv.Close()
//	err = conv.ExportPDF(ctx, svgBytes, "out/page.pdf")
//
// # Assembly
//
// A [Merger] concatenates the pages of one output file. [PDFMerger] checks
// that every converted page is a single PDF page, copies a lone page into
// place and merges several with pdfcpu.
package render
