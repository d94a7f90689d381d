package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Carmen-Shannon/oxy-life/engine/config"
	"github.com/Carmen-Shannon/oxy-life/engine/logging"
)

var (
	cfgFile string
	verbose bool

	// cfg is loaded by the root command before any subcommand runs.
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oxy-life",
		Short: "A GPU cellular automaton",
		Long: `oxy-life evolves Conway's Game of Life, or any B/S rule, on the GPU.

Grid state lives in a floating point texture and each generation is a single
full-screen render pass into a second texture.`,
		Version:           "0.1.0",
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.oxy-life/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().String("backend", "", "renderer backend (wgpu or software)")
	cmd.PersistentFlags().String("strategy", "", "buffer strategy (pingpong or copy)")

	cmd.AddCommand(newRunCmd(), newHeadlessCmd(), newConfigCmd(), newVersionCmd())
	return cmd
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config with the persistent flags bound over it and initialises logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	loaded, err := config.Load(cfgFile, func(v *viper.Viper) error {
		if f := flags.Lookup("backend"); f != nil && f.Changed {
			if err := v.BindPFlag("renderer.backend", f); err != nil {
				return err
			}
		}
		if f := flags.Lookup("strategy"); f != nil && f.Changed {
			if err := v.BindPFlag("grid.strategy", f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}

	if err := logging.Init(loaded.Logging.Level, loaded.Logging.File, loaded.Logging.Console); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	cfg = loaded
	return nil
}
