package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/wine-cellar/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create any missing tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		for _, t := range database.Tables() {
			fmt.Fprintf(cmd.OutOrStdout(), "ok  %s\n", t)
		}
		return nil
	},
}
