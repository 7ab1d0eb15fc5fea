package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"hotel_curator/internal/app"
)

var scoreCmd = &cobra.Command{
	Use:   "score <hotel-id>",
	Short: "Explain the score and gate verdict of a stored hotel",
	Long:  "Rescores a stored hotel from its current data without calling any photo provider.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, cache, closeStores, err := stores(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStores()

		q := app.NewQueryService(repo, asCache(cache), cfg.CacheTTL, cfg.Pipeline())
		ex, err := q.Explain(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("explain %s: %w", args[0], err)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ex)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
