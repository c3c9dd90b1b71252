package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/barnhunt/barnhunt/pkg/coursemaps"
	"github.com/barnhunt/barnhunt/pkg/errors"
	"github.com/barnhunt/barnhunt/pkg/layers"
	"github.com/barnhunt/barnhunt/pkg/render/layertree"
	"github.com/barnhunt/barnhunt/pkg/svg"
)

// Layer tree output formats.
const (
	formatTree = "tree"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

// layersCommand shows how the layers of a drawing are classified.
func (c *CLI) layersCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "layers FILE",
		Short: "Show the classified layer tree of a drawing",
		Long: `Show the layer hierarchy of a drawing together with each layer's flags
([o] overlay, [h] hidden) and output basename.

Formats:
  tree  indented text (default)
  dot   Graphviz DOT source
  svg   diagram rendered with Graphviz`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDrawings,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			logger := loggerFromContext(ctx)
			path := args[0]
			doc, err := svg.ReadFile(path)
			if err != nil {
				return &errors.DocumentError{Path: path, Err: err}
			}
			classifier, err := layers.Detect(doc.Root(), logger)
			if err != nil {
				return &errors.DocumentError{Path: path, Err: err}
			}
			nodes := layertree.Build(doc.Root(), classifier, coursemaps.ExcludeFrom)
			title := fmt.Sprintf("%s (%s)", filepath.Base(path), classifier.Convention)

			var out []byte
			switch format {
			case formatTree:
				out = []byte(layertree.Tree(title, nodes))
			case formatDOT:
				out = []byte(layertree.ToDOT(title, nodes))
			case formatSVG:
				sw := startStopwatch(logger)
				spinner := newSpinner(ctx, os.Stderr, "Running graphviz...")
				spinner.Start()
				out, err = layertree.RenderSVG(ctx, layertree.ToDOT(title, nodes))
				if err != nil {
					spinner.StopWithError("Graphviz failed")
					return err
				}
				spinner.Stop()
				sw.done("rendered layer diagram", "roots", len(nodes))
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want tree, dot or svg)", format)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTree, "output format: tree, dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}
