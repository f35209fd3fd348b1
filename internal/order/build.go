// Package order turns validated images into a submittable print order:
// staging copies for upload, filling in store and product defaults, and
// reconciling the service's verdict with the local validation report.
package order

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/photoprint/internal/config"
	"github.com/fpang/photoprint/internal/printapi"
)

const (
	// DefaultProductID is the 4x6 standard print.
	DefaultProductID = "6560003"

	// fallbackStoreNum is used when no store was configured or found.
	fallbackStoreNum = "1234"

	promiseTimeLayout = "01-02-2006 03:04 PM"
)

// ErrEmptyOrder is returned when an order would contain no images.
var ErrEmptyOrder = errors.New("order has no printable images")

// Options carries everything besides the images that goes into an order.
type Options struct {
	Customer   printapi.Customer
	Store      *config.Store
	ProductID  string
	Quantity   int
	CouponCode string

	// PromiseTime overrides the store's promise time when set.
	PromiseTime string
}

// Build assembles a print order from staged assets, applying the default
// product, store, and promise time where the options leave them blank.
func Build(assets []printapi.Asset, opts Options) (*printapi.Order, error) {
	if len(assets) == 0 {
		return nil, ErrEmptyOrder
	}

	productID := opts.ProductID
	if productID == "" {
		productID = DefaultProductID
	}

	qty := opts.Quantity
	if qty < 1 {
		qty = 1
	}

	storeNum := fallbackStoreNum
	promise := ""
	if opts.Store != nil {
		if opts.Store.StoreNum != "" {
			storeNum = opts.Store.StoreNum
		}
		promise = opts.Store.PromiseTime
	}
	if opts.PromiseTime != "" {
		promise = opts.PromiseTime
	}
	if promise == "" {
		// The submit endpoint requires a promise time even when the store
		// search did not supply one. Tomorrow matches the usual in-store
		// turnaround.
		promise = time.Now().Add(24 * time.Hour).Format(promiseTimeLayout)
	}

	ord := &printapi.Order{
		Customer:    opts.Customer,
		StoreNum:    storeNum,
		PromiseTime: promise,
		ProductID:   productID,
		Quantity:    qty,
		CouponCode:  opts.CouponCode,
		Assets:      assets,
	}

	log.Debug().Str("storeNum", storeNum).Str("productId", productID).Int("images", len(assets)).Msg("Print order built")
	return ord, nil
}
