package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quickleads/lead-broker/internal/config"
	"github.com/quickleads/lead-broker/internal/qualify"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lead-broker",
	Short: "Moving lead brokerage backend",
	Long:  "Geocodes move requests, prices them, scores lead quality, and routes qualified leads to buyer networks.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := qualify.ValidateConfig(cfg.Rubric); err != nil {
			return err
		}

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
