package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/barnhunt/barnhunt/pkg/buildinfo"
	"github.com/barnhunt/barnhunt/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the log level is set from --verbose, the
// config file is loaded, the logger is attached to the command context and
// the logging hooks are registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Barnhunt renders Inkscape course maps to PDF",
		Long: `Barnhunt is a CLI tool for Barn Hunt course builders. It reads Inkscape
drawings whose layers describe courses and their overlays, and exports one
PDF page per course view.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("verbose") {
				c.SetLogLevel(logLevel(c.verbose))
			}
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(commandContext(cmd), c.Logger))
			registerLogHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./barnhunt.toml if present)")

	// Register all subcommands
	root.AddCommand(c.pdfsCommand())
	root.AddCommand(c.viewsCommand())
	root.AddCommand(c.layersCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.ratsCommand())
	root.AddCommand(c.coordsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// registerLogHooks routes observability events to the debug log.
func registerLogHooks(logger *log.Logger) {
	h := &logHooks{logger: logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}
