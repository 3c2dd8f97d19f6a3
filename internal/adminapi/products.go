package adminapi

import (
	"context"
	"fmt"
	"strconv"
)

type ProductFilters struct {
	CategoryID int64
	Search     string
	Active     string // "all", "true" or "false"
	Page       int
	Size       int
}

// ProductInput carries the create/update form payload. Pointer fields are
// omitted when nil so updates can be partial.
type ProductInput struct {
	Name          string   `json:"name"`
	SKU           string   `json:"sku,omitempty"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	CategoryID    int64    `json:"categoryId"`
	StockQuantity int      `json:"stockQuantity"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	IsActive      bool     `json:"isActive"`
}

type stockAdjustmentRequest struct {
	Quantity int    `json:"quantity"`
	Type     string `json:"type"` // add or remove
}

func (c *Client) Products(ctx context.Context, f ProductFilters) (*Page[Product], error) {
	q := newQuery().
		Filter("search", f.Search).
		Filter("active", f.Active).
		Page(f.Page, f.Size)
	if f.CategoryID > 0 {
		q = q.Filter("categoryId", strconv.FormatInt(f.CategoryID, 10))
	}

	var page Page[Product]
	if err := c.get(ctx, "/admin/products", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Product returns nil without error when the product does not exist.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := c.get(ctx, fmt.Sprintf("/admin/products/%d", id), nil, &p); err != nil {
		return nil, notFoundToNil(err)
	}
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var p Product
	if err := c.send(ctx, "POST", "/admin/products", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	var p Product
	if err := c.send(ctx, "PUT", fmt.Sprintf("/admin/products/%d", id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", fmt.Sprintf("/admin/products/%d", id), nil, nil)
}

// AdjustStock asks the backend to add or remove quantity units. Callers are
// expected to have rejected adjustments that would go negative.
func (c *Client) AdjustStock(ctx context.Context, id int64, quantity int, adjustmentType string) (*Product, error) {
	var p Product
	if err := c.send(ctx, "PUT", fmt.Sprintf("/admin/products/%d/stock", id), stockAdjustmentRequest{Quantity: quantity, Type: adjustmentType}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
