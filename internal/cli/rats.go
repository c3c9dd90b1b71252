package cli

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/barnhunt/barnhunt/pkg/errors"
	"github.com/barnhunt/barnhunt/pkg/template"
)

// dimensionsEnv may hold the course dimensions used by coords, e.g. "25 30".
const dimensionsEnv = "BARNHUNT_DIMENSIONS"

var defaultDimensions = [2]int{25, 30}

// ratsCommand prints rows of random rat counts.
func (c *CLI) ratsCommand() *cobra.Command {
	var (
		rows int
		seed uint64
	)

	cmd := &cobra.Command{
		Use:   "rats",
		Short: "Generate random rat counts",
		Long:  "Print rows of five random numbers in the range 1 to 5.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows < 1 {
				return errors.New(errors.ErrCodeInvalidInput, "number of rows must be positive")
			}
			if !cmd.Flags().Changed("seed") {
				seed = rand.Uint64()
			}
			for _, r := range ratRows(seed, rows) {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&rows, "number-of-rows", "n", 5, "number of rows to print")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default random)")

	return cmd
}

// ratRows returns n rows of five rat counts drawn from seed.
func ratRows(seed uint64, n int) []template.Rats {
	out := make([]template.Rats, n)
	for i := range out {
		out[i] = template.RandomRats(seed, 5, 1, 5, i*5)
	}
	return out
}

// coordsCommand prints random unique grid coordinates.
func (c *CLI) coordsCommand() *cobra.Command {
	var (
		count     int
		groupSize int
		seed      uint64
	)

	cmd := &cobra.Command{
		Use:   "coords [X-MAX Y-MAX]",
		Short: "Generate random coordinates",
		Long: `Generate random coordinates between (0, 0) and (X-MAX, Y-MAX).
Duplicates are eliminated.

The course dimensions may also be given by the ` + dimensionsEnv + `
environment variable, e.g.

  export ` + dimensionsEnv + `="25 30"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected X-MAX and Y-MAX, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if env := os.Getenv(dimensionsEnv); env != "" {
					args = strings.Fields(env)
				}
			}
			dims, err := parseDimensions(args)
			if err != nil {
				return err
			}
			if count < 1 || groupSize < 1 {
				return errors.New(errors.ErrCodeInvalidInput, "count and group size must be positive")
			}
			if !cmd.Flags().Changed("seed") {
				seed = rand.Uint64()
			}
			rng := rand.New(rand.NewPCG(seed, seed))
			printGrouped(cmd.OutOrStdout(), coordinates(rng, dims[0], dims[1], count), groupSize)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "number-of-rows", "n", 1000, "number of coordinates (capped at the grid size)")
	cmd.Flags().IntVarP(&groupSize, "group-size", "g", 10, "print a blank line after every n coordinates")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default random)")

	return cmd
}

func parseDimensions(args []string) ([2]int, error) {
	if len(args) == 0 {
		return defaultDimensions, nil
	}
	if len(args) != 2 {
		return [2]int{}, errors.New(errors.ErrCodeInvalidInput, "dimensions need two values, got %q", strings.Join(args, " "))
	}
	var dims [2]int
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil || v < 1 {
			return [2]int{}, errors.New(errors.ErrCodeInvalidInput, "invalid dimension %q", a)
		}
		dims[i] = v
	}
	return dims, nil
}

// coordinates returns up to n distinct points of the grid spanning
// (0, 0) to (xmax, ymax), formatted as "x,y".
func coordinates(rng *rand.Rand, xmax, ymax, n int) []string {
	dimX, dimY := xmax+1, ymax+1
	points := rng.Perm(dimX * dimY)
	n = min(n, len(points))
	out := make([]string, n)
	for i, pt := range points[:n] {
		y, x := pt/dimX, pt%dimX
		out[i] = fmt.Sprintf("%3d,%3d", x, y)
	}
	return out
}

func printGrouped(w io.Writer, lines []string, size int) {
	for i, line := range lines {
		if i > 0 && i%size == 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, line)
	}
}
