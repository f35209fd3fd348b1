package main

import (
	"fmt"
	"path/filepath"

	"github.com/fpang/photoprint/internal/order"
)

// displayOrderHeader prints the banner shown before the order runs.
func displayOrderHeader(path string) {
	fmt.Println()
	fmt.Println("============================================")
	fmt.Println("📷 Walgreens Photo Prints")
	fmt.Println("============================================")
	fmt.Printf("Input: %s\n", path)
	fmt.Printf("Prints per photo: %d\n", quantityFlag)
	if productFlag != "" {
		fmt.Printf("Product: %s\n", productFlag)
	}
	if couponFlag != "" {
		fmt.Printf("Coupon: %s\n", couponFlag)
	}
	fmt.Println("--------------------------------------------")
	fmt.Println("⏳ Validating photos...")
}

// renderResult prints the reconciled outcome of an order run.
func renderResult(res *order.Result) {
	fmt.Println()
	fmt.Println("============================================")
	switch res.Status {
	case order.StatusSuccess:
		fmt.Println("✅ Order Submitted")
	case order.StatusPartial:
		fmt.Println("⚠️  Order Submitted With Problems")
	default:
		fmt.Println("❌ Order Not Submitted")
	}
	fmt.Println("============================================")

	if len(res.Printed) > 0 {
		what := fmt.Sprintf("%d photos", len(res.Printed))
		if len(res.Printed) == 1 {
			what = filepath.Base(res.Printed[0].Path)
		}
		fmt.Printf("Successfully submitted %s for printing at Walgreens.\n", what)
		for _, p := range res.Printed {
			line := "   " + filepath.Base(p.Path)
			if !p.TakenAt.IsZero() {
				line += fmt.Sprintf(" (taken %s)", p.TakenAt.Format("Jan 2, 2006"))
			}
			fmt.Println(line)
		}
		fmt.Printf("Order #%s. Ready for pickup at Walgreens #%s.", res.OrderNumber, res.StoreNum)
		if res.PickupDetails != "" {
			// The promise time is shown exactly as the service sent it.
			fmt.Printf(" Promised by %s.", res.PickupDetails)
		}
		fmt.Println()
	}

	if len(res.Failures) > 0 {
		fmt.Println("--------------------------------------------")
		fmt.Printf("⚠️  %d photo(s) will not be printed:\n", len(res.Failures))
		for _, f := range res.Failures {
			origin := "rejected locally"
			if f.Source == order.SourceService {
				origin = "rejected by Walgreens"
			}
			fmt.Printf("   %s (%s): %s\n", filepath.Base(f.Path), origin, f.Reason)
		}
	}

	fmt.Println("============================================")
}
