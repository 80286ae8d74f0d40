package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/passpick/passpick/internal/config"
)

// NewListCommand creates the list command.
func NewListCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all entry names, one per line",
		Long: `Print every entry in the password store as a flat name list.

The colored tree that pass itself prints is decoded into plain
slash-separated names, suitable for piping into other tools.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := newStore(cfg).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
