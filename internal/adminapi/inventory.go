package adminapi

import (
	"context"
	"strconv"
)

type InventoryFilters struct {
	CategoryID int64
	Search     string
	Page       int
	Size       int
}

func (c *Client) Inventory(ctx context.Context, f InventoryFilters) (*Page[Product], error) {
	q := newQuery().
		Filter("search", f.Search).
		Page(f.Page, f.Size)
	if f.CategoryID > 0 {
		q = q.Filter("categoryId", strconv.FormatInt(f.CategoryID, 10))
	}

	var page Page[Product]
	if err := c.get(ctx, "/admin/inventory", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) LowStockProducts(ctx context.Context) ([]Product, error) {
	var items []Product
	if err := c.get(ctx, "/admin/inventory/low-stock", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) StockHistory(ctx context.Context, page, size int) (*Page[StockMovement], error) {
	var p Page[StockMovement]
	if err := c.get(ctx, "/admin/inventory/history", newQuery().Page(page, size), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
