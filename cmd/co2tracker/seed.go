package main

import (
	"fmt"

	"github.com/co2tracker/co2tracker/pkg/catalog"
	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load transports, energy types and locations",
	Long:  `Upserts the reference catalog from a YAML file. Running it again with the same file changes nothing.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "./config/catalog.yaml", "Catalog seed file")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	seed, err := catalog.LoadSeed(seedFile)
	if err != nil {
		return fmt.Errorf("loading seed: %w", err)
	}

	_, db, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := catalog.NewService(catalog.NewRepository(db)).Seed(cmd.Context(), seed); err != nil {
		return fmt.Errorf("applying seed: %w", err)
	}
	cmd.Printf("Seeded %d transports, %d energy types, %d locations\n",
		len(seed.Transports), len(seed.EnergyTypes), len(seed.Locations))
	return nil
}
