package adminapi

import (
	"context"
	"fmt"
)

type OrderFilters struct {
	Status string
	Search string
	Page   int
	Size   int
}

type statusUpdateRequest struct {
	Status OrderStatus `json:"status"`
	Notes  string      `json:"notes,omitempty"`
}

type refundRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

func (c *Client) Orders(ctx context.Context, f OrderFilters) (*Page[Order], error) {
	q := newQuery().
		Filter("status", f.Status).
		Filter("search", f.Search).
		Page(f.Page, f.Size)

	var page Page[Order]
	if err := c.get(ctx, "/admin/orders", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Order returns nil without error when the order does not exist.
func (c *Client) Order(ctx context.Context, id int64) (*OrderDetail, error) {
	var detail OrderDetail
	if err := c.get(ctx, fmt.Sprintf("/admin/orders/%d", id), nil, &detail); err != nil {
		return nil, notFoundToNil(err)
	}
	return &detail, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status OrderStatus, notes string) (*Order, error) {
	var order Order
	if err := c.send(ctx, "PUT", fmt.Sprintf("/admin/orders/%d/status", id), statusUpdateRequest{Status: status, Notes: notes}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) RefundOrder(ctx context.Context, id int64, amount float64, reason string) error {
	return c.send(ctx, "POST", fmt.Sprintf("/admin/orders/%d/refund", id), refundRequest{Amount: amount, Reason: reason}, nil)
}

func (c *Client) OrderTimeline(ctx context.Context, id int64) ([]TimelineEntry, error) {
	var entries []TimelineEntry
	if err := c.get(ctx, fmt.Sprintf("/admin/orders/%d/timeline", id), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
