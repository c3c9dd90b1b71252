package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/barnhunt/barnhunt/pkg/errors"
)

// RSVG converts pages with rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type RSVG struct {
	Executable string
}

// NewRSVG returns an RSVG converter.
func NewRSVG() *RSVG {
	return &RSVG{Executable: "rsvg-convert"}
}

// Name returns "rsvg".
func (r *RSVG) Name() string { return ConverterRSVG }

// Close is a no-op.
func (r *RSVG) Close() error { return nil }

// ExportPDF pipes svg through rsvg-convert and writes the result to out.
func (r *RSVG) ExportPDF(ctx context.Context, svg []byte, out string) error {
	exe, err := lookPath(r.Executable, "  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, exe, "-f", "pdf")
	cmd.Stdin = bytes.NewReader(svg)

	var pdf, errBuf bytes.Buffer
	cmd.Stdout = &pdf
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrCodeConverter, err, "rsvg-convert: %s", errBuf.String())
	}
	if err := EnsureDir(filepath.Dir(out)); err != nil {
		return err
	}
	return os.WriteFile(out, pdf.Bytes(), 0o644)
}
