package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

)

// execute runs the root command with args in an empty working directory
// and returns what the command wrote to its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"pdfs", "views", "layers", "serve", "rats", "coords", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommandFlags(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"config", "verbose"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}

	pdfs, _, _ := root.Find([]string{"pdfs"})
	for _, name := range []string{
		"output-directory", "processes", "shell-mode", "converter", "inkscape",
		"random-seed", "basename-template", "no-cache", "refresh",
	} {
		if pdfs.Flags().Lookup(name) == nil {
			t.Errorf("pdfs is missing --%s", name)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version error = %v", err)
	}
	if !strings.HasPrefix(out, "barnhunt dev") {
		t.Errorf("--version = %q, want prefix %q", out, "barnhunt dev")
	}
}

func TestPDFsRequiresFiles(t *testing.T) {
	if _, err := execute(t, "pdfs"); err == nil {
		t.Error("pdfs without files should fail")
	}
}

func TestBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("processes = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", path, "rats"); err == nil {
		t.Error("invalid config should fail")
	}
}

func TestApplyPDFsFlags(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	pdfs, _, _ := root.Find([]string{"pdfs"})
	if err := pdfs.ParseFlags([]string{"-o", "maps", "--random-seed", "7"}); err != nil {
		t.Fatal(err)
	}

	c.Config.Processes = 3
	c.applyPDFsFlags(pdfs, pdfsOptions{outputDir: "maps", randomSeed: 7, processes: 99})

	if c.Config.OutputDirectory != "maps" {
		t.Errorf("OutputDirectory = %q, want maps", c.Config.OutputDirectory)
	}
	if c.Config.RandomSeed != 7 {
		t.Errorf("RandomSeed = %d, want 7", c.Config.RandomSeed)
	}
	if c.Config.Processes != 3 {
		t.Errorf("Processes = %d, want 3 (flag not given)", c.Config.Processes)
	}
}


func TestCompletion(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"completion", "bash"}, "__start_barnhunt"},
		{[]string{"completion", "fish"}, "complete -c barnhunt"},
		{[]string{"__complete", "pdfs", ""}, "svg\n:8\n"},
		{[]string{"__complete", "layers", ""}, "svg\n:8\n"},
	}

	for _, tt := range tests {
		out, err := execute(t, tt.args...)
		if err != nil {
			t.Errorf("%v error = %v", tt.args, err)
			continue
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("%v output missing %q", tt.args, tt.want)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
