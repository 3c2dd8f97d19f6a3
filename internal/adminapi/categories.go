package adminapi

import (
	"context"
	"fmt"
)

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.get(ctx, "/admin/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// ActiveCategories backs the product form's category selector.
func (c *Client) ActiveCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.get(ctx, "/admin/categories/active", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// Category returns nil without error when the category does not exist.
func (c *Client) Category(ctx context.Context, id int64) (*Category, error) {
	var cat Category
	if err := c.get(ctx, fmt.Sprintf("/admin/categories/%d", id), nil, &cat); err != nil {
		return nil, notFoundToNil(err)
	}
	return &cat, nil
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	var cat Category
	if err := c.send(ctx, "POST", "/admin/categories", in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*Category, error) {
	var cat Category
	if err := c.send(ctx, "PUT", fmt.Sprintf("/admin/categories/%d", id), in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", fmt.Sprintf("/admin/categories/%d", id), nil, nil)
}

func (c *Client) CategoryProductCount(ctx context.Context, id int64) (int64, error) {
	var count int64
	if err := c.get(ctx, fmt.Sprintf("/admin/categories/%d/products/count", id), nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}
