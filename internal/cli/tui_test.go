package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestProgressModelUpdate(t *testing.T) {
	var m tea.Model = progressModel{}
	msgs := []tea.Msg{
		documentMsg{path: "ring.svg"},
		convertStartMsg{view: "Course 1"},
		convertStartMsg{view: "Course 2"},
		documentMsg{path: "ring.svg", views: 2, done: true},
		convertDoneMsg{view: "Course 1"},
		convertDoneMsg{view: "Course 2", failed: true},
	}
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}

	pm := m.(progressModel)
	if pm.views != 2 || pm.started != 2 || pm.done != 2 || pm.failed != 1 {
		t.Errorf("model = %+v, want 2 views, 2 started, 2 done, 1 failed", pm)
	}
	if pm.last != "Course 2" {
		t.Errorf("last = %q, want Course 2", pm.last)
	}

	view := pm.View()
	for _, want := range []string{"ring.svg", "2/2 pages", "1 failed", "Course 2"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestProgressModelDone(t *testing.T) {
	m, cmd := progressModel{}.Update(progressDoneMsg{})
	if cmd == nil {
		t.Fatal("progressDoneMsg should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("progressDoneMsg should return tea.Quit")
	}
	if v := m.View(); v != "" {
		t.Errorf("finished View() = %q, want empty", v)
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(0, 0); !strings.Contains(got, strings.Repeat("░", progressBarWidth)) {
		t.Errorf("renderBar(0, 0) = %q, want an empty bar", got)
	}
	if got := renderBar(4, 4); !strings.Contains(got, strings.Repeat("█", progressBarWidth)) {
		t.Errorf("renderBar(4, 4) = %q, want a full bar", got)
	}
}

func TestRunWithProgress(t *testing.T) {
	want := errors.New("boom")
	err := runWithProgress(context.Background(), io.Discard, func() error { return want })
	if !errors.Is(err, want) {
		t.Errorf("runWithProgress() = %v, want %v", err, want)
	}
}

func TestRunWithProgressCanceled(t *testing.T) {
	var logs bytes.Buffer
	ctx, cancel := context.WithCancel(withLogger(context.Background(), newLogger(&logs, LogInfo)))
	cancel()

	err := runWithProgress(ctx, io.Discard, func() error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("runWithProgress() = %v, want %v", err, context.Canceled)
	}
	if !strings.Contains(logs.String(), "progress display stopped") {
		t.Errorf("log = %q, want the display error reported", logs.String())
	}
}
