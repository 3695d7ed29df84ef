package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/quickleads/lead-broker/internal/model"
	"github.com/quickleads/lead-broker/internal/store"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load buyers into the database",
	Long:  "Loads buyers from a YAML file, or the built-in sample network when no file is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		buyers := model.SampleBuyers()
		if seedFile != "" {
			loaded, err := loadBuyersFile(seedFile)
			if err != nil {
				return err
			}
			buyers = loaded
		}

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		for i := range buyers {
			if buyers[i].BuyerID == "" {
				return eris.Errorf("seed: buyer %d has no buyer_id", i)
			}
			if err := st.SaveBuyer(ctx, &buyers[i]); err != nil {
				return err
			}
		}

		zap.L().Info("seed: buyers loaded", zap.Int("count", len(buyers)))
		return nil
	},
}

func loadBuyersFile(path string) ([]model.Buyer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "seed: read %s", path)
	}

	var doc struct {
		Buyers []model.Buyer `yaml:"buyers"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, eris.Wrapf(err, "seed: parse %s", path)
	}
	if len(doc.Buyers) == 0 {
		return nil, eris.Errorf("seed: no buyers in %s", path)
	}
	return doc.Buyers, nil
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML file with a buyers list")
	rootCmd.AddCommand(seedCmd)
}
