package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/barnhunt/barnhunt/pkg/errors"
)

// Inkscape runs one inkscape process per exported page.
type Inkscape struct {
	Executable string
	Logger     *log.Logger
}

// NewInkscape returns an Inkscape converter running exe ("inkscape" if
// empty). Unexpected inkscape output is logged to logger, or log.Default()
// if nil.
func NewInkscape(exe string, logger *log.Logger) *Inkscape {
	if exe == "" {
		exe = "inkscape"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Inkscape{Executable: exe, Logger: logger}
}

// Name returns "inkscape".
func (k *Inkscape) Name() string { return ConverterInkscape }

// Close is a no-op.
func (k *Inkscape) Close() error { return nil }

// ExportPDF writes svg to a temporary file and exports its page area to out.
func (k *Inkscape) ExportPDF(ctx context.Context, svg []byte, out string) error {
	exe, err := lookPath(k.Executable, inkscapeHint)
	if err != nil {
		return err
	}

	dir := os.TempDir()
	in := tempName(dir, ".svg")
	if err := os.WriteFile(in, svg, 0o600); err != nil {
		return err
	}
	defer os.Remove(in)
	tmp := tempName(dir, ".pdf")
	defer os.Remove(tmp)

	cmd := exec.CommandContext(ctx, exe, exportArgs(in, tmp)...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrCodeConverter, err, "inkscape: %s", strings.TrimSpace(output.String()))
	}
	if msg := strings.TrimSpace(output.String()); msg != "" {
		k.Logger.Warn("unexpected output from inkscape", "output", msg)
	}
	return moveFile(tmp, out)
}

func exportArgs(in, out string) []string {
	return []string{
		"--export-area-page",
		"--export-type=pdf",
		"--export-filename=" + out,
		in,
	}
}
