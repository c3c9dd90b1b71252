package render

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/barnhunt/barnhunt/pkg/errors"
)

// Converter names accepted by [New].
const (
	ConverterInkscape = "inkscape"
	ConverterRSVG     = "rsvg"
)

// DefaultShellTimeout bounds a single shell-mode export.
const DefaultShellTimeout = 30 * time.Second

// Converter exports SVG documents to PDF.
//
// Implementations are safe for concurrent use.
type Converter interface {
	// ExportPDF writes svg, rendered as a single PDF page, to out.
	ExportPDF(ctx context.Context, svg []byte, out string) error
	// Close releases any processes held by the converter.
	Close() error
	// Name identifies the converter in cache keys and log messages.
	Name() string
}

// Options selects and configures a Converter.
type Options struct {
	Converter string // ConverterInkscape (default) or ConverterRSVG
	Inkscape  string // inkscape executable, "inkscape" if empty
	ShellMode bool   // keep inkscape running between pages
	Timeout   time.Duration
	Logger    *log.Logger
}

// ValidConverters is the set of supported converter names.
var ValidConverters = map[string]bool{
	ConverterInkscape: true,
	ConverterRSVG:     true,
}

// New returns the Converter described by opts.
func New(opts Options) (Converter, error) {
	switch opts.Converter {
	case "", ConverterInkscape:
		if opts.ShellMode {
			return NewShellInkscape(opts.Inkscape, opts.Timeout, opts.Logger), nil
		}
		return NewInkscape(opts.Inkscape, opts.Logger), nil
	case ConverterRSVG:
		return NewRSVG(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown converter %q (must be one of: inkscape, rsvg)", opts.Converter)
	}
}

// lookPath resolves exe, reporting a missing executable with install hints.
func lookPath(exe, hint string) (string, error) {
	path, err := exec.LookPath(exe)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConverterMissing, err, "%s not found. Install with:\n%s", exe, hint)
	}
	return path, nil
}

const inkscapeHint = "  macOS:  brew install --cask inkscape\n  Linux:  apt install inkscape"

// tempName returns a fresh path in dir for a file with the given suffix.
func tempName(dir, suffix string) string {
	return filepath.Join(dir, "barnhunt-"+uuid.NewString()+suffix)
}

// moveFile renames src to dst, copying when they are on different
// filesystems.
func moveFile(src, dst string) error {
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
