package commands

import (
	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-life/engine/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and generate configuration",
	}

	var format string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Print the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Write(cmd.OutOrStdout(), config.DefaultConfig(), config.Format(format))
		},
	}
	initCmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml or toml)")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Write(cmd.OutOrStdout(), cfg, config.Format(format))
		},
	}
	showCmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml or toml)")

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
