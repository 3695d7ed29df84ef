package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quickleads/lead-broker/internal/export"
	"github.com/quickleads/lead-broker/internal/model"
	"github.com/quickleads/lead-broker/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all leads to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		// Page through the full lead table.
		var leads []model.Lead
		for page := 1; ; page++ {
			result, err := st.ListLeads(ctx, page, 500)
			if err != nil {
				return err
			}
			leads = append(leads, result.Leads...)
			if page >= result.Pages || len(result.Leads) == 0 {
				break
			}
		}

		if err := export.WriteLeadsXLSX(exportOut, leads); err != nil {
			return err
		}

		zap.L().Info("export: workbook written",
			zap.String("path", exportOut),
			zap.Int("leads", len(leads)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "leads.xlsx", "output file path")
	rootCmd.AddCommand(exportCmd)
}
