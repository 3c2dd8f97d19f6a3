package adminapi

import (
	"context"
	"fmt"
)

// CouponInput is the create/update payload. UsageCount is server-owned and
// deliberately absent.
type CouponInput struct {
	Code        string     `json:"code"`
	Type        CouponType `json:"type"`
	Value       float64    `json:"value"`
	MinPurchase float64    `json:"minPurchase,omitempty"`
	MaxDiscount float64    `json:"maxDiscount,omitempty"`
	UsageLimit  int        `json:"usageLimit"`
	ExpiresAt   string     `json:"expiresAt"`
	IsActive    bool       `json:"isActive"`
}

func (c *Client) Coupons(ctx context.Context, page, size int) (*Page[Coupon], error) {
	var p Page[Coupon]
	if err := c.get(ctx, "/admin/coupons", newQuery().Page(page, size), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Coupon returns nil without error when the coupon does not exist.
func (c *Client) Coupon(ctx context.Context, id int64) (*Coupon, error) {
	var coupon Coupon
	if err := c.get(ctx, fmt.Sprintf("/admin/coupons/%d", id), nil, &coupon); err != nil {
		return nil, notFoundToNil(err)
	}
	return &coupon, nil
}

func (c *Client) CreateCoupon(ctx context.Context, in CouponInput) (*Coupon, error) {
	var coupon Coupon
	if err := c.send(ctx, "POST", "/admin/coupons", in, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (c *Client) UpdateCoupon(ctx context.Context, id int64, in CouponInput) (*Coupon, error) {
	var coupon Coupon
	if err := c.send(ctx, "PUT", fmt.Sprintf("/admin/coupons/%d", id), in, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (c *Client) DeleteCoupon(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", fmt.Sprintf("/admin/coupons/%d", id), nil, nil)
}
