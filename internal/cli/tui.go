package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/barnhunt/barnhunt/pkg/observability"
)

var (
	progressDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	progressBarStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

const progressBarWidth = 30

// =============================================================================
// Messages
// =============================================================================

type documentMsg struct {
	path  string
	views int
	done  bool
}

type convertStartMsg struct{ view string }

type convertDoneMsg struct {
	view   string
	failed bool
}

type progressDoneMsg struct{}

// =============================================================================
// progressModel - live view of a pdfs run
// =============================================================================

// progressModel is the bubbletea model shown while pages are converted.
type progressModel struct {
	document string
	views    int
	started  int
	done     int
	failed   int
	last     string
	spin     int
	finished bool
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m progressModel) Init() tea.Cmd {
	return tick()
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case documentMsg:
		m.document = msg.path
		if msg.done {
			m.views += msg.views
		}
	case convertStartMsg:
		m.started++
		m.last = msg.view
	case convertDoneMsg:
		m.done++
		if msg.failed {
			m.failed++
		}
	case progressDoneMsg:
		m.finished = true
		return m, tea.Quit
	case tickMsg:
		m.spin++
		return m, tick()
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.finished {
		return ""
	}
	var b strings.Builder
	frame := spinnerFrames[m.spin%len(spinnerFrames)]
	b.WriteString(styleIconSpinner.Render(frame) + " " + StyleTitle.Render("Converting"))
	if m.document != "" {
		b.WriteString(" " + progressDimStyle.Render(m.document))
	}
	b.WriteString("\n")

	total := max(m.started, m.views)
	b.WriteString("  " + renderBar(m.done, total) + " ")
	b.WriteString(progressDimStyle.Render(fmt.Sprintf("%d/%d pages", m.done, total)))
	if m.failed > 0 {
		b.WriteString(" " + StyleWarning.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	b.WriteString("\n")
	if m.last != "" {
		b.WriteString("  " + progressDimStyle.Render(iconArrow+" "+m.last) + "\n")
	}
	return b.String()
}

func renderBar(done, total int) string {
	filled := 0
	if total > 0 {
		filled = min(progressBarWidth, done*progressBarWidth/total)
	}
	return progressBarStyle.Render(strings.Repeat("█", filled)) +
		progressDimStyle.Render(strings.Repeat("░", progressBarWidth-filled))
}

// =============================================================================
// progressHooks - forwards pipeline events to the program
// =============================================================================

// progressHooks implements observability.PipelineHooks by sending each
// event to a running bubbletea program.
type progressHooks struct {
	observability.NoopPipelineHooks
	send func(tea.Msg)
}

func (h progressHooks) OnDocumentStart(_ context.Context, path string) {
	h.send(documentMsg{path: path})
}

func (h progressHooks) OnDocumentComplete(_ context.Context, path string, views int, _ time.Duration, _ error) {
	h.send(documentMsg{path: path, views: views, done: true})
}

func (h progressHooks) OnConvertStart(_ context.Context, view string) {
	h.send(convertStartMsg{view: view})
}

func (h progressHooks) OnConvertComplete(_ context.Context, view string, _ time.Duration, err error) {
	h.send(convertDoneMsg{view: view, failed: err != nil})
}

// runWithProgress runs fn while showing a progress view on w. Pipeline
// hooks are routed to the view for the duration of the call.
func runWithProgress(ctx context.Context, w io.Writer, fn func() error) error {
	p := tea.NewProgram(progressModel{},
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(w),
		tea.WithoutSignalHandler(),
	)

	prev := observability.Pipeline()
	observability.SetPipelineHooks(progressHooks{send: p.Send})
	defer observability.SetPipelineHooks(prev)

	errc := make(chan error, 1)
	go func() {
		err := fn()
		p.Send(progressDoneMsg{})
		errc <- err
	}()

	if _, err := p.Run(); err != nil {
		loggerFromContext(ctx).Warn("progress display stopped", "err", err)
	}
	return <-errc
}
