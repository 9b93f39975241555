package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand prints the CLI's build version and commit.
func NewVersionCommand(version, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cognitectl version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "cognitectl %s (%s)\n", version, commit)

			return err
		},
	}
}
