package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create ledger tables (goose migrations or sheet headers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.services.Ledger.EnsureSchema(cmd.Context()); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schema is up to date (%s)\n", rt.cfg.Ledger.Backend)
			return nil
		},
	}
}
