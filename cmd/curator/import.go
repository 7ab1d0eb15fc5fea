package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_curator/internal/app"
)

var importCmd = &cobra.Command{
	Use:   "import <hotels.json>",
	Short: "Load hotel metadata from a JSON array",
	Long: `Upserts hotel records into the store ahead of curation.

The file holds a JSON array of objects; common field spellings (name/hotel_name,
rating/review_score, lat/latitude and so on) are accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readRecords(args[0])
		if err != nil {
			return err
		}

		repo, cache, closeStores, err := stores(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStores()

		rep, err := app.NewImportService(repo, asCache(cache)).Import(cmd.Context(), records)
		log.Info().Int("imported", rep.Imported).Int("skipped", rep.Skipped).Msg("import finished")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported=%d skipped=%d\n", rep.Imported, rep.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func readRecords(path string) ([]map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []map[string]any
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}
