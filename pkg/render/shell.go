package render

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/barnhunt/barnhunt/pkg/cache"
	"github.com/barnhunt/barnhunt/pkg/errors"
)

// ShellInkscape exports pages through long running "inkscape --shell"
// processes.
//
// Idle processes are kept in a pool. A caller takes one for the duration of
// an export, so concurrent exports each get their own process. A process
// that dies or times out is discarded and replaced on demand.
type ShellInkscape struct {
	Executable string
	Timeout    time.Duration
	Logger     *log.Logger

	mu      sync.Mutex
	idle    []*shellProcess
	workdir string
	closed  bool
}

// NewShellInkscape returns a shell-mode converter running exe ("inkscape"
// if empty). timeout bounds each export (DefaultShellTimeout if zero).
func NewShellInkscape(exe string, timeout time.Duration, logger *log.Logger) *ShellInkscape {
	if exe == "" {
		exe = "inkscape"
	}
	if timeout <= 0 {
		timeout = DefaultShellTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ShellInkscape{Executable: exe, Timeout: timeout, Logger: logger}
}

// Name returns "inkscape".
func (s *ShellInkscape) Name() string { return ConverterInkscape }

// ExportPDF exports svg to out using a pooled inkscape process.
func (s *ShellInkscape) ExportPDF(ctx context.Context, svg []byte, out string) error {
	p, err := s.acquire(ctx)
	if err != nil {
		return err
	}

	// Files are addressed relative to the work directory so that no path
	// needs quoting on the shell command line.
	in := filepath.Base(tempName("", ".svg"))
	tmp := filepath.Base(tempName("", ".pdf"))
	inPath := filepath.Join(p.dir, in)
	tmpPath := filepath.Join(p.dir, tmp)
	if err := os.WriteFile(inPath, svg, 0o600); err != nil {
		s.release(p, true)
		return err
	}
	defer os.Remove(inPath)
	defer os.Remove(tmpPath)

	output, err := p.run(ctx, shellExportCommand(in, tmp), s.Timeout)
	s.release(p, err == nil)
	if err != nil {
		return err
	}
	if msg := strings.TrimSpace(output); msg != "" {
		s.Logger.Warn("unexpected output from shell-mode inkscape", "output", msg)
	}
	if _, err := os.Stat(tmpPath); err != nil {
		return errors.Wrap(errors.ErrCodeConverter, err, "inkscape wrote no output")
	}
	return moveFile(tmpPath, out)
}

// Close stops every idle process and removes the work directory. Processes
// still in use are stopped when they are released.
func (s *ShellInkscape) Close() error {
	s.mu.Lock()
	idle := s.idle
	s.idle = nil
	s.closed = true
	workdir := s.workdir
	s.mu.Unlock()

	for _, p := range idle {
		p.quit()
	}
	if workdir != "" {
		return os.RemoveAll(workdir)
	}
	return nil
}

func (s *ShellInkscape) acquire(ctx context.Context) (*shellProcess, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeInternal, "shell-mode inkscape is closed")
	}
	if n := len(s.idle); n > 0 {
		p := s.idle[n-1]
		s.idle = s.idle[:n-1]
		s.mu.Unlock()
		return p, nil
	}
	if s.workdir == "" {
		dir, err := os.MkdirTemp("", "barnhunt-")
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.workdir = dir
	}
	dir := s.workdir
	s.mu.Unlock()

	exe, err := lookPath(s.Executable, inkscapeHint)
	if err != nil {
		return nil, err
	}
	s.Logger.Debug("starting shell-mode inkscape", "executable", exe)
	return startShell(ctx, exe, dir, s.Timeout, s.Logger)
}

func (s *ShellInkscape) release(p *shellProcess, healthy bool) {
	s.mu.Lock()
	if healthy && !s.closed {
		s.idle = append(s.idle, p)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	if healthy {
		p.quit()
	} else {
		p.kill()
	}
}

func shellExportCommand(in, out string) string {
	return fmt.Sprintf("file-open:%s; export-area-page; export-type:pdf; export-filename:%s; export-do; file-close", in, out)
}

// shellProcess is one running "inkscape --shell".
type shellProcess struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	out   *bufio.Reader
	dir   string
	once  sync.Once
}

func startShell(ctx context.Context, exe, dir string, timeout time.Duration, logger *log.Logger) (*shellProcess, error) {
	cmd := exec.Command(exe, "--shell")
	cmd.Dir = dir
	cmd.Stderr = &logWriter{logger: logger, msg: "inkscape stderr"}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConverter, err, "start inkscape")
	}

	p := &shellProcess{cmd: cmd, stdin: stdin, out: bufio.NewReader(stdout), dir: dir}
	if _, err := p.waitPrompt(ctx, timeout); err != nil {
		return nil, err
	}
	return p, nil
}

// run sends line and returns the output printed before the next prompt.
func (p *shellProcess) run(ctx context.Context, line string, timeout time.Duration) (string, error) {
	if _, err := io.WriteString(p.stdin, line+"\n"); err != nil {
		p.kill()
		return "", cache.Retryable(errors.Wrap(errors.ErrCodeConverter, cache.ErrProcessDied, "write to inkscape: %v", err))
	}
	return p.waitPrompt(ctx, timeout)
}

func (p *shellProcess) waitPrompt(ctx context.Context, timeout time.Duration) (string, error) {
	type result struct {
		output string
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		output, err := readPrompt(p.out)
		ch <- result{output, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		if r.err != nil {
			p.kill()
			return r.output, cache.Retryable(errors.Wrap(errors.ErrCodeConverter, cache.ErrProcessDied, "inkscape exited: %v", r.err))
		}
		return r.output, nil
	case <-ctx.Done():
		p.kill()
		return "", ctx.Err()
	case <-timer.C:
		p.kill()
		return "", errors.New(errors.ErrCodeTimeout, "inkscape did not respond within %s", timeout)
	}
}

// quit asks the process to exit, killing it if it does not.
func (p *shellProcess) quit() {
	p.once.Do(func() {
		io.WriteString(p.stdin, "quit\n")
		p.stdin.Close()
		done := make(chan struct{})
		go func() {
			p.cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			p.cmd.Process.Kill()
			<-done
		}
	})
}

func (p *shellProcess) kill() {
	p.once.Do(func() {
		p.stdin.Close()
		p.cmd.Process.Kill()
		p.cmd.Wait()
	})
}

// readPrompt reads up to the next ">" prompt, which inkscape prints at the
// start of a line, and returns everything before the prompt line.
func readPrompt(r *bufio.Reader) (string, error) {
	var buf []byte
	lineStart := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			return string(buf), err
		}
		buf = append(buf, b)
		switch {
		case b == '\n':
			lineStart = len(buf)
		case b == '>' && strings.TrimSpace(string(buf[lineStart:])) == ">":
			return string(buf[:lineStart]), nil
		}
	}
}

// logWriter logs whatever is written to it at debug level.
type logWriter struct {
	logger *log.Logger
	msg    string
}

func (w *logWriter) Write(p []byte) (int, error) {
	if s := strings.TrimSpace(string(p)); s != "" {
		w.logger.Debug(w.msg, "output", s)
	}
	return len(p), nil
}
