package grid

import (
	"fmt"
	"io"
)

// DiagnosticPrintout writes every stride-th cell as "Pixel i: v", followed by a live-cell summary.
func DiagnosticPrintout(w io.Writer, g *Grid, stride int) error {
	if stride < 1 {
		stride = 1
	}
	for i := 0; i < len(g.cells); i += stride {
		if _, err := fmt.Fprintf(w, "Pixel %d: %g\n", i, g.cells[i]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%dx%d grid, %d alive\n", g.width, g.height, g.AliveCount())
	return err
}
