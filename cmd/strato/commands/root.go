// Package commands defines the CLI command structure and flag bindings.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the strato CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strato",
		Short: "Manage configuration for cloud instance provisioning",
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Config())
	cmd.AddCommand(Version())

	return cmd
}
