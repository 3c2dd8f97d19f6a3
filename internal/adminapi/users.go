package adminapi

import (
	"context"
	"fmt"
)

type UserFilters struct {
	Search string
	Status string // "all", "active" or "blocked"
	Page   int
	Size   int
}

type userStatusRequest struct {
	IsActive bool `json:"isActive"`
}

func (c *Client) Users(ctx context.Context, f UserFilters) (*Page[User], error) {
	q := newQuery().
		Filter("search", f.Search).
		Filter("status", f.Status).
		Page(f.Page, f.Size)

	var page Page[User]
	if err := c.get(ctx, "/admin/users", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// User returns nil without error when the user does not exist.
func (c *Client) User(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := c.get(ctx, fmt.Sprintf("/admin/users/%d", id), nil, &u); err != nil {
		return nil, notFoundToNil(err)
	}
	return &u, nil
}

func (c *Client) SetUserStatus(ctx context.Context, id int64, active bool) (*User, error) {
	var u User
	if err := c.send(ctx, "PUT", fmt.Sprintf("/admin/users/%d/status", id), userStatusRequest{IsActive: active}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UserOrders(ctx context.Context, id int64, page, size int) (*Page[Order], error) {
	var p Page[Order]
	if err := c.get(ctx, fmt.Sprintf("/admin/users/%d/orders", id), newQuery().Page(page, size), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
