package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krishisetu/krishi-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "krishi",
	Short: "AI agricultural advisor for Indian farmers",
	Long:  "Aggregates weather, farming records, crop rankings, and market prices into context-rich advisory answers, served over CLI and HTTP.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
