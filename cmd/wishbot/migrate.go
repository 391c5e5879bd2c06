package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		// opening the store applies pending migrations
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.close() }()

		a.logger.Info().Str("driver", a.db.Driver()).Msg("Migrations applied")
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}
