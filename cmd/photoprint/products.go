package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpang/photoprint/internal/printapi"
)

var productGroupFlag string

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the print products available to order",
	Run:   runProducts,
}

func init() {
	productsCmd.Flags().StringVar(&productGroupFlag, "group", printapi.DefaultProductGroup, "Product group to list")
	rootCmd.AddCommand(productsCmd)
}

func runProducts(cmd *cobra.Command, args []string) {
	ctx, stop, client, _ := initClient()
	defer stop()

	products, err := client.Products(ctx, productGroupFlag)
	if err != nil {
		exitWithError(err)
	}

	fmt.Println()
	fmt.Println("============================================")
	fmt.Println("🖼️  Print Products")
	fmt.Println("============================================")
	if len(products) == 0 {
		fmt.Println("No products available in this group.")
	}
	for _, p := range products {
		fmt.Printf("   %s  %s\n", p.ProductID, p.Name)
		if p.Description != "" {
			fmt.Printf("           %s\n", p.Description)
		}
	}
	fmt.Println("============================================")
}
