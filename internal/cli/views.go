package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/barnhunt/barnhunt/pkg/pipeline"
)

// viewsCommand lists the views of drawings without converting them.
func (c *CLI) viewsCommand() *cobra.Command {
	opts := pdfsOptions{}

	cmd := &cobra.Command{
		Use:   "views FILE...",
		Short: "List the course maps found in drawings",
		Long: `List every view that "barnhunt pdfs" would export, in page order,
with the PDF file it belongs to and the layers it hides.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDrawings,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyPDFsFlags(cmd, opts)
			if err := c.Config.Validate(); err != nil {
				return err
			}
			ctx := commandContext(cmd)
			runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
			pages, err := runner.Views(ctx, c.Config.PipelineOptions(args))
			if len(pages) == 0 {
				if err == nil {
					printWarning("No course maps found")
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderViews(pages))
			if err != nil {
				return err
			}
			printNextStep("Export them", appName+" pdfs "+strings.Join(args, " "))
			return nil
		},
	}

	def := c.Config
	cmd.Flags().StringVarP(&opts.outputDir, "output-directory", "o", def.OutputDirectory, "directory PDF files would be written to")
	cmd.Flags().Int64Var(&opts.randomSeed, "random-seed", def.RandomSeed, "seed for rats() in text templates")
	cmd.Flags().StringVar(&opts.basenameTemplate, "basename-template", def.BasenameTemplate, "template naming output files")

	return cmd
}

// renderViews formats pages as a table.
func renderViews(pages []*pipeline.Page) string {
	rows := make([][]string, 0, len(pages))
	for _, p := range pages {
		rows = append(rows, []string{
			strconv.Itoa(p.Seq + 1),
			p.Description,
			p.Output,
			strings.Join(p.Hidden, " "),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "View", "Output", "Hidden").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if col == 3 {
				return cellStyle.Foreground(colorDim)
			}
			return cellStyle
		}).
		Render()
}
