package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shopiggo/geoclean/pkg/ingest"
	"github.com/shopiggo/geoclean/pkg/runner"
)

// syncCmd groups the upstream ingestion commands that keep the local
// document store fresh.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull advertiser and promotion data from the CJ APIs",
}

var syncAdvertisersCmd = &cobra.Command{
	Use:   "advertisers",
	Short: "Sync advertiser records into the retailer collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, _ := cmd.Flags().GetString("ids")
		keywords, _ := cmd.Flags().GetString("keywords")
		name, _ := cmd.Flags().GetString("name")
		collection, _ := cmd.Flags().GetString("collection")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		client := newCJClient()
		res, err := client.SyncAdvertisers(context.Background(), db, collection, ingest.AdvertiserQuery{
			AdvertiserIDs:  ids,
			Keywords:       keywords,
			AdvertiserName: name,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Synced %d advertisers into %s (%d pages)\n", res.Upserted, res.Collection, res.Pages)
		return nil
	},
}

var syncPromotionsCmd = &cobra.Command{
	Use:   "promotions",
	Short: "Sync promotional links into the promotions source collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		collection, _ := cmd.Flags().GetString("collection")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		client := newCJClient()
		res, err := client.SyncPromotions(context.Background(), db, collection, days)
		if err != nil {
			return err
		}

		fmt.Printf("Synced %d promotion links into %s (%d pages)\n", res.Upserted, res.Collection, res.Pages)
		return nil
	},
}

func newCJClient() *ingest.Client {
	return ingest.NewClient(
		viper.GetString("cj.cid"),
		viper.GetString("cj.token"),
		viper.GetString("cj.pid"),
	)
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncAdvertisersCmd)
	syncCmd.AddCommand(syncPromotionsCmd)

	syncAdvertisersCmd.Flags().String("ids", "", `Advertiser ids, or "joined" / "notjoined"`)
	syncAdvertisersCmd.Flags().String("keywords", "", "Keyword search")
	syncAdvertisersCmd.Flags().String("name", "", "Advertiser name search")
	syncAdvertisersCmd.Flags().String("collection", ingest.DefaultRetailerCollection, "Destination collection")

	syncPromotionsCmd.Flags().Int("days", 0, "Only links whose promotion started within the last N days (0 = all)")
	syncPromotionsCmd.Flags().String("collection", runner.DefaultSourceCollection, "Destination collection")
}
