package commands

import (
	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-life/engine"
	"github.com/Carmen-Shannon/oxy-life/engine/window"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open a window and run the simulation",
		Long: `Open a window and run the simulation interactively.

Controls:
  Space    pause / resume
  N        single step
  R        reseed
  C        clear
  = / Up   faster
  - / Down slower
  Esc      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := engineOptions(cfg)
			if err != nil {
				return err
			}

			w := window.NewWindow(
				window.WithTitle(cfg.Window.Title),
				window.WithSize(cfg.Window.Width, cfg.Window.Height),
			)
			eng, err := engine.NewEngine(append(opts, engine.WithWindow(w))...)
			if err != nil {
				_ = w.Close()
				return err
			}
			defer eng.Release()

			return eng.Run()
		},
	}
}
