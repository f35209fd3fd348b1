// Package pipeline wires one print order end to end: resolve the input
// path, validate images, pick a store, stage, submit, reconcile. Nothing
// touches the network until at least one image has passed validation.
package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/fpang/photoprint/internal/cleanup"
	"github.com/fpang/photoprint/internal/config"
	"github.com/fpang/photoprint/internal/imaging"
	"github.com/fpang/photoprint/internal/order"
	"github.com/fpang/photoprint/internal/printapi"
)

// Submitter is the one-shot order submission the pipeline depends on.
type Submitter interface {
	SubmitOrder(ctx context.Context, order *printapi.Order) (*printapi.Outcome, error)
}

// CouponValidator checks a coupon code before any image is uploaded.
type CouponValidator interface {
	ValidateCoupon(ctx context.Context, code string, items []printapi.ProductRef) (*printapi.CouponResult, error)
}

// Pipeline runs one print order. Client and Cleanup are required; the
// rest is optional.
type Pipeline struct {
	Client  Submitter
	Coupons CouponValidator
	Cleanup *cleanup.Manager

	// ResolveStore, when set, picks the pickup store. It runs only after
	// validation has accepted at least one image, so a run with nothing
	// to print never reaches the network. A failed lookup falls back to
	// the configured store rather than aborting the order.
	ResolveStore func(ctx context.Context) (*config.Store, error)

	// AffiliateID feeds the generated upload names.
	AffiliateID string

	Limits imaging.Limits
	Opts   order.Options
}

// Run processes one input path and returns the reconciled result. A
// returned error is fatal and means no order was submitted; per-image
// problems land in the result instead.
func (p *Pipeline) Run(ctx context.Context, path string) (*order.Result, error) {
	defer p.Cleanup.Run()

	candidates, err := imaging.Resolve(path)
	if err != nil {
		return nil, err
	}

	report, err := imaging.Validate(ctx, candidates, p.Limits)
	if err != nil {
		return nil, err
	}

	if len(report.Accepted) == 0 {
		log.Warn().Int("checked", report.Total()).Msg("No images passed validation, order aborted")
		res := order.Reconcile(report, nil)
		return &res, nil
	}

	opts := p.Opts

	if opts.CouponCode != "" && p.Coupons != nil {
		productID := opts.ProductID
		if productID == "" {
			productID = order.DefaultProductID
		}
		coupon, err := p.Coupons.ValidateCoupon(ctx, opts.CouponCode, []printapi.ProductRef{{ProductID: productID, Qty: "1"}})
		if err != nil {
			return nil, err
		}
		log.Info().Str("coupon", coupon.CouponCode).Str("discount", coupon.Discount).Msg("Coupon accepted")
	}

	if p.ResolveStore != nil {
		store, err := p.ResolveStore(ctx)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Msg("Store search failed, falling back to the configured store")
		case store != nil:
			opts.Store = store
		}
	}

	assets, err := order.Stage(report.Accepted, p.AffiliateID, p.Cleanup)
	if err != nil {
		return nil, err
	}

	ord, err := order.Build(assets, opts)
	if err != nil {
		return nil, err
	}

	outcome, err := p.Client.SubmitOrder(ctx, ord)
	if err != nil {
		return nil, err
	}

	res := order.Reconcile(report, outcome)
	return &res, nil
}
