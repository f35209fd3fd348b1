package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/photoprint/internal/order"
	"github.com/fpang/photoprint/internal/printapi"
)

var (
	latitudeFlag  float64
	longitudeFlag float64
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "Find nearby Walgreens stores that can print your order",
	Run:   runStores,
}

func init() {
	storesCmd.Flags().Float64Var(&latitudeFlag, "latitude", 0, "Latitude to search from (default is the configured location)")
	storesCmd.Flags().Float64Var(&longitudeFlag, "longitude", 0, "Longitude to search from (default is the configured location)")
	rootCmd.AddCommand(storesCmd)
}

func runStores(cmd *cobra.Command, args []string) {
	ctx, stop, client, cfg := initClient()
	defer stop()

	lat, lon := latitudeFlag, longitudeFlag
	if lat == 0 && lon == 0 {
		if cfg.Location == nil {
			log.Fatal().Msg("No location to search from. Pass --latitude and --longitude or add a location block to the config file")
		}
		lat, lon = cfg.Location.Latitude, cfg.Location.Longitude
	}

	stores, err := client.FindStores(ctx, lat, lon,
		[]printapi.ProductRef{{ProductID: order.DefaultProductID, Qty: "1"}})
	if err != nil {
		exitWithError(err)
	}

	fmt.Println()
	fmt.Println("============================================")
	fmt.Println("🏪 Nearby Walgreens Stores")
	fmt.Println("============================================")
	if len(stores) == 0 {
		fmt.Println("No stores found within 20 miles.")
	}
	for i, s := range stores {
		fmt.Printf("%2d. Walgreens #%s (%s %s)\n", i+1, s.StoreNum, s.Distance, s.DistanceUnit)
		fmt.Printf("    %s, %s, %s %s\n", s.Street, s.City, s.State, s.Zip)
		if s.Phone != "" {
			fmt.Printf("    Phone: %s\n", s.Phone)
		}
		if s.PromiseTime != "" {
			fmt.Printf("    Ready by: %s\n", s.PromiseTime)
		}
	}
	fmt.Println("============================================")
}
