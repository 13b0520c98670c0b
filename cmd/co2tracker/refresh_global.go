package main

import (
	"fmt"

	"github.com/co2tracker/co2tracker/internal/app"
	"github.com/co2tracker/co2tracker/internal/utils"
	"github.com/spf13/cobra"
)

var refreshGlobalCmd = &cobra.Command{
	Use:   "refresh-global",
	Short: "Download the global atmospheric CO2 levels",
	RunE:  runRefreshGlobal,
}

func init() {
	rootCmd.AddCommand(refreshGlobalCmd)
}

func runRefreshGlobal(cmd *cobra.Command, args []string) error {
	cfg, db, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := app.NewGlobalCO2Service(db, cfg, &utils.SystemClock{}).Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("refreshing global CO2 levels: %w", err)
	}
	cmd.Printf("Stored %d global CO2 levels\n", count)
	return nil
}
