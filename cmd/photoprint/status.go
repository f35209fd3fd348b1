package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <order-number> [order-number...]",
	Short: "Check the status of submitted orders",
	Args:  cobra.MinimumNArgs(1),
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx, stop, client, _ := initClient()
	defer stop()

	statuses, err := client.CheckOrderStatus(ctx, args)
	if err != nil {
		exitWithError(err)
	}

	fmt.Println()
	fmt.Println("============================================")
	fmt.Println("📦 Order Status")
	fmt.Println("============================================")
	if len(statuses) == 0 {
		fmt.Println("No matching orders found.")
	}
	for _, s := range statuses {
		fmt.Printf("Order #%s: %s\n", s.VendorOrderID, s.Status)
		if s.StoreNum != "" {
			fmt.Printf("   Store: Walgreens #%s\n", s.StoreNum)
		}
		if s.PromiseTime != "" {
			fmt.Printf("   Ready by: %s\n", s.PromiseTime)
		}
	}
	fmt.Println("============================================")
}
