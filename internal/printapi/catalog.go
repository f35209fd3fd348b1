package printapi

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Products fetches the print product catalog for a product group.
// An empty groupID selects the standard prints group.
func (c *Client) Products(ctx context.Context, groupID string) ([]Product, error) {
	if groupID == "" {
		groupID = DefaultProductGroup
	}

	payload := productsRequest{
		baseRequest:    c.base(),
		ProductGroupID: groupID,
		Action:         "getphotoprods",
	}

	var resp productsResponse
	if err := c.postJSON(ctx, "/photo/products/v3", payload, &resp); err != nil {
		return nil, err
	}

	log.Debug().Int("count", len(resp.Products)).Str("group", groupID).Msg("Fetched product catalog")
	return resp.Products, nil
}

// FindStores searches for pickup stores near a coordinate that can print
// the given products. The search radius is fixed at 20 miles.
func (c *Client) FindStores(ctx context.Context, lat, lon float64, items []ProductRef) ([]Store, error) {
	payload := storesRequest{
		baseRequest:    c.base(),
		Latitude:       strconv.FormatFloat(lat, 'f', -1, 64),
		Longitude:      strconv.FormatFloat(lon, 'f', -1, 64),
		Radius:         searchRadiusMiles,
		Action:         "photoStores",
		ProductDetails: items,
	}

	var resp storesResponse
	if err := c.postJSON(ctx, "/photo/store/v3", payload, &resp); err != nil {
		return nil, err
	}

	stores := make([]Store, 0, len(resp.PhotoStores))
	for _, s := range resp.PhotoStores {
		store := s.Details
		store.Phone = strings.TrimSpace(store.Phone)
		stores = append(stores, store)
	}

	log.Debug().Int("count", len(stores)).Msg("Store search complete")
	return stores, nil
}

// CheckOrderStatus looks up the current status of previously submitted
// orders by their order numbers.
func (c *Client) CheckOrderStatus(ctx context.Context, orderNumbers []string) ([]OrderStatus, error) {
	payload := statusRequest{
		baseRequest: c.base(),
		Orders:      orderNumbers,
		Action:      "orderstatus",
	}

	var resp statusResponse
	if err := c.postJSON(ctx, "/photo/order/status/v3", payload, &resp); err != nil {
		return nil, err
	}

	return resp.Orders, nil
}

// ValidateCoupon checks a coupon code against the given products before
// anything is uploaded, so a bad code aborts the order side-effect free.
func (c *Client) ValidateCoupon(ctx context.Context, code string, items []ProductRef) (*CouponResult, error) {
	payload := couponRequest{
		baseRequest:    c.base(),
		CouponCode:     code,
		Action:         "getdiscount",
		ProductDetails: items,
	}

	var resp CouponResult
	if err := c.postJSON(ctx, "/photo/order/coupon/v3", payload, &resp); err != nil {
		return nil, err
	}

	log.Debug().Str("coupon", code).Str("status", resp.Status).Msg("Coupon validated")
	return &resp, nil
}
