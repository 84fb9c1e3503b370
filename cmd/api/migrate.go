package main

import (
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the postgres tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		if _, err := db.ExecContext(cmd.Context(), schema); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		logger.Info("schema applied", zap.Int("bytes", len(schema)))
		return nil
	},
}
