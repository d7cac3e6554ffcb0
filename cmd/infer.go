package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shopiggo/geoclean/pkg/geo"
)

// inferCmd exercises the name/domain heuristics against a single string,
// useful for checking what a given advertiser name would resolve to before
// running a full clean.
var inferCmd = &cobra.Command{
	Use:   "infer <name>",
	Short: "Show countries inferred from an advertiser name or domain",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("provide an advertiser name or domain")
		}
		name := strings.Join(args, " ")

		codes := geo.InferFromName(name)
		for _, c := range codes {
			if c == geo.GlobalSentinel {
				fmt.Println("Global")
				return nil
			}
		}

		names := geo.NormalizeCountryList(codes)
		if len(names) == 0 {
			fmt.Println("(no geographic signal)")
			return nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inferCmd)
}
