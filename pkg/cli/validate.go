package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockd-jsonlog/pkg/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file without starting the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d stubs, port %d)\n", args[0], len(cfg.Stubs), cfg.Server.Port)
			return nil
		},
	}
}
