package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/barnhunt/barnhunt/pkg/pipeline"
)

// pdfsOptions holds the flags of the pdfs command.
type pdfsOptions struct {
	outputDir        string
	processes        int
	shellMode        bool
	converter        string
	inkscape         string
	randomSeed       int64
	basenameTemplate string
	noCache          bool
	refresh          bool
	noProgress       bool
}

// pdfsCommand creates the command that exports course maps to PDF.
func (c *CLI) pdfsCommand() *cobra.Command {
	opts := pdfsOptions{}

	cmd := &cobra.Command{
		Use:   "pdfs FILE...",
		Short: "Export course maps to PDF files",
		Long: `Export every course map found in the given Inkscape drawings.

Each view becomes one PDF page. Views that share an output name are
collected into the same file, in the order they were found.`,
		Example: `  barnhunt pdfs ring1.svg ring2.svg -o maps
  barnhunt pdfs --basename-template '{{ overlays|join:"-" }}' ring.svg`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDrawings,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyPDFsFlags(cmd, opts)
			if err := c.Config.Validate(); err != nil {
				return err
			}
			return c.runPDFs(commandContext(cmd), args, opts)
		},
	}

	def := c.Config
	cmd.Flags().StringVarP(&opts.outputDir, "output-directory", "o", def.OutputDirectory, "directory PDF files are written to")
	cmd.Flags().IntVarP(&opts.processes, "processes", "p", def.Processes, "concurrent conversions (0 = number of CPUs)")
	cmd.Flags().BoolVar(&opts.shellMode, "shell-mode", def.ShellMode, "keep inkscape running between pages")
	cmd.Flags().StringVar(&opts.converter, "converter", def.Converter, "page converter: inkscape or rsvg")
	cmd.Flags().StringVar(&opts.inkscape, "inkscape", def.Inkscape, "inkscape executable")
	cmd.Flags().Int64Var(&opts.randomSeed, "random-seed", def.RandomSeed, "seed for rats() in text templates")
	cmd.Flags().StringVar(&opts.basenameTemplate, "basename-template", def.BasenameTemplate, "template naming output files")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the page cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "reconvert cached pages")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable the progress display")

	return cmd
}

// applyPDFsFlags copies explicitly set flags over the loaded config.
func (c *CLI) applyPDFsFlags(cmd *cobra.Command, opts pdfsOptions) {
	f := cmd.Flags()
	if f.Changed("output-directory") {
		c.Config.OutputDirectory = opts.outputDir
	}
	if f.Changed("processes") {
		c.Config.Processes = opts.processes
	}
	if f.Changed("shell-mode") {
		c.Config.ShellMode = opts.shellMode
	}
	if f.Changed("converter") {
		c.Config.Converter = opts.converter
	}
	if f.Changed("inkscape") {
		c.Config.Inkscape = opts.inkscape
	}
	if f.Changed("random-seed") {
		c.Config.RandomSeed = opts.randomSeed
	}
	if f.Changed("basename-template") {
		c.Config.BasenameTemplate = opts.basenameTemplate
	}
}

func (c *CLI) runPDFs(ctx context.Context, files []string, opts pdfsOptions) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(logger, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.Config.PipelineOptions(files)
	popts.Refresh = opts.refresh

	var result *pipeline.Result
	run := func() error {
		var err error
		result, err = runner.Run(ctx, popts)
		return err
	}

	if !opts.noProgress && showProgress(logger) {
		level := logger.GetLevel()
		logger.SetLevel(log.WarnLevel)
		err = runWithProgress(ctx, os.Stderr, run)
		logger.SetLevel(level)
	} else {
		err = run()
	}
	// Skipped drawings still leave the other drawings' files written.
	if result != nil {
		printResult(result)
	}
	return err
}

// showProgress reports whether the interactive progress view should be used.
func showProgress(logger *log.Logger) bool {
	return logger.GetLevel() > log.DebugLevel && isatty.IsTerminal(os.Stderr.Fd())
}

func printResult(result *pipeline.Result) {
	if len(result.Outputs) == 0 {
		printWarning("No course maps found")
		return
	}
	printSuccess("Wrote %d PDF files", len(result.Outputs))
	for _, out := range result.Outputs {
		printFile(out.Path)
	}
	printStats(result.Stats)
}
