package adminapi

import "context"

func (c *Client) SalesReport(ctx context.Context, startDate, endDate string) (*SalesReport, error) {
	q := newQuery().
		Filter("startDate", startDate).
		Filter("endDate", endDate)

	var report SalesReport
	if err := c.get(ctx, "/admin/reports/sales", q, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	var items []TopProduct
	if err := c.get(ctx, "/admin/reports/top-products", newQuery().Int("limit", limit), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) ActivityLogs(ctx context.Context, page, size int) (*Page[ActivityLog], error) {
	var p Page[ActivityLog]
	if err := c.get(ctx, "/admin/reports/activity-logs", newQuery().Page(page, size), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
