package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shopiggo/geoclean/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cleaning HTTP server",
	Long: `Exposes the cleaning pipeline over HTTP for Cloud Scheduler style
invocations:

  GET /api/clean?dryRun=true&id=<docId>
  GET /api/clean?dryRun=true&preview=true
  GET /api/clean?batchSize=400&limit=1000
  GET /api/stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		source, _ := cmd.Flags().GetString("source")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		s := server.New(db, source,
			viper.GetString("server.username"),
			viper.GetString("server.password"))
		return s.Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("source", "", "Source collection for clean runs (default promotions-cj-linksearch)")
}
