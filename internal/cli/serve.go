package cli

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/barnhunt/barnhunt/internal/preview"
	"github.com/barnhunt/barnhunt/pkg/pipeline"
)

const defaultAddr = "localhost:8370"

// serveCommand starts the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	opts := pdfsOptions{}

	cmd := &cobra.Command{
		Use:   "serve FILE...",
		Short: "Preview course maps in a browser",
		Long: `Serve the views of the given drawings as SVG images.

Drawings are reloaded on every request, so edits saved from Inkscape show
up on the next page refresh.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDrawings,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyPDFsFlags(cmd, opts)
			if err := c.Config.Validate(); err != nil {
				return err
			}
			ctx := commandContext(cmd)
			logger := loggerFromContext(ctx)
			runner := pipeline.NewRunner(nil, nil, logger)
			srv := preview.NewServer(runner, c.Config.PipelineOptions(args), logger)
			return c.serve(ctx, addr, srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "address to listen on")
	cmd.Flags().Int64Var(&opts.randomSeed, "random-seed", c.Config.RandomSeed, "seed for rats() in text templates")
	cmd.Flags().StringVar(&opts.basenameTemplate, "basename-template", c.Config.BasenameTemplate, "template naming output files")

	return cmd
}

// serve runs h on addr until ctx is cancelled.
func (c *CLI) serve(ctx context.Context, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	printSuccess("Serving course maps")
	printDetail("http://%s/", ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	loggerFromContext(ctx).Info("shutting down preview server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
