package commands

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-life/engine"
	"github.com/Carmen-Shannon/oxy-life/engine/grid"
)

func newHeadlessCmd() *cobra.Command {
	var (
		generations uint64
		dumpPath    string
		stride      int
		showGrid    bool
	)

	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Step the simulation without a window",
		Long: `Step the simulation a fixed number of generations without opening a window,
then print a summary of the final grid. The final generation is read back once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := engineOptions(cfg)
			if err != nil {
				return err
			}
			eng, err := engine.NewEngine(opts...)
			if err != nil {
				return err
			}
			defer eng.Release()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			start := time.Now()
			if err := eng.RunHeadless(ctx, generations); err != nil {
				return err
			}
			elapsed := time.Since(start)

			final, err := eng.Simulation().ReadBack()
			if err != nil {
				return fmt.Errorf("reading back generation %d: %w", eng.Simulation().Generation(), err)
			}

			out := cmd.OutOrStdout()
			if err := writeSummary(out, eng, final, elapsed); err != nil {
				return err
			}
			if stride > 0 {
				if err := grid.DiagnosticPrintout(out, final, stride); err != nil {
					return err
				}
			}
			if showGrid {
				fmt.Fprint(out, final.Render())
			}
			if dumpPath != "" {
				if err := dumpPNG(dumpPath, final); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", dumpPath)
			}
			return nil
		},
	}

	cmd.Flags().Uint64VarP(&generations, "generations", "n", 100, "number of generations to step")
	cmd.Flags().StringVar(&dumpPath, "dump", "", "write the final grid as a grayscale PNG")
	cmd.Flags().IntVar(&stride, "stride", 0, "print every stride-th cell value (0 disables)")
	cmd.Flags().BoolVar(&showGrid, "show", false, "print the final grid as text")
	return cmd
}

func writeSummary(w io.Writer, eng engine.Engine, g *grid.Grid, elapsed time.Duration) error {
	gen := eng.Simulation().Generation()
	stats := eng.Renderer().Stats()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(gen) / elapsed.Seconds()
	}
	_, err := fmt.Fprintf(w,
		"generation: %d\ngrid: %dx%d\nalive: %d\nelapsed: %s (%.1f gen/s)\npasses: %d copies: %d uploads: %d readbacks: %d\n",
		gen, g.Width(), g.Height(), g.AliveCount(), elapsed.Round(time.Millisecond), rate,
		stats.Passes, stats.Copies, stats.Uploads, stats.Readbacks)
	return err
}

func dumpPNG(path string, g *grid.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, g.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

