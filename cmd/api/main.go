package main

import (
	"fmt"
	"os"

	"github.com/georgemunganga/danasys-storefront/internal/platform/config"
	"github.com/georgemunganga/danasys-storefront/internal/platform/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "danasys",
	Short: "Danasys grocery storefront API",
	Long: `danasys serves the grocery storefront: catalog, session cart, user/business
mode, wallet, checkout and order tracking.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		var err error
		cfg, err = config.Load(files...)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, cfg.Development())
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load instead of .env")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
