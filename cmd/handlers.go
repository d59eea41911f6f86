package cmd

import (
	"fmt"

	"github.com/isometry/lambda-http-server/internal/config"
	"github.com/isometry/lambda-http-server/pkg/invocation"
	"github.com/spf13/cobra"
)

func cmdHandlers() *cobra.Command {
	return &cobra.Command{
		Use:   "handlers",
		Short: "List the registered handlers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current := invocation.NormalisePath(config.Service.Handler)
			for _, name := range invocation.Names() {
				marker := " "
				if name == current {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}
}
