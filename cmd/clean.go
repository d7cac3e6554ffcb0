package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopiggo/geoclean/internal/utils"
	"github.com/shopiggo/geoclean/pkg/runner"
	"github.com/shopiggo/geoclean/pkg/storage"
)

// cleanCmd runs the country-normalization pass, either over the whole
// source collection or a single document.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize targeted countries for promotion documents",
	Long: `Reads documents from the promotions source collection, infers and
normalizes their targeted countries, and merge-upserts the cleaned output
into the clean collection (or the preview collection with --dry-run
--preview, or nowhere with --dry-run alone).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		limit, _ := cmd.Flags().GetInt("limit")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		preview, _ := cmd.Flags().GetBool("preview")
		id, _ := cmd.Flags().GetString("id")
		source, _ := cmd.Flags().GetString("source")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		r := &runner.Runner{DB: db, Log: utils.Log}
		opts := runner.Options{
			SourceCollection: source,
			BatchSize:        batchSize,
			Limit:            limit,
			DryRun:           dryRun,
			Preview:          preview,
			DocID:            id,
		}

		var result interface{}
		if id != "" {
			single, err := r.RunSingle(context.Background(), opts)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("document not found: %s", id)
				}
				return err
			}
			result = single
		} else {
			batch, err := r.RunBatch(context.Background(), opts)
			if err != nil {
				return err
			}
			result = batch
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().Int("batch-size", 400, "Documents per scan page")
	cleanCmd.Flags().Int("limit", 0, "Max documents to process (0 = unbounded)")
	cleanCmd.Flags().Bool("dry-run", false, "Compute results without writing to the clean collection")
	cleanCmd.Flags().Bool("preview", false, "With --dry-run, write results to the preview collection")
	cleanCmd.Flags().String("id", "", "Process a single document id only")
	cleanCmd.Flags().String("source", runner.DefaultSourceCollection, "Source collection to scan")
}
