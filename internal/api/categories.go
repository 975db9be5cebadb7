package api

import (
	"context"
	"fmt"
)

// --- Category Methods ---

// ListCategories returns the current user's categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	data, err := c.get(ctx, buildQuery("/categories", c.ownerParams()))
	if err != nil {
		return nil, err
	}
	return decodeList[Category](data)
}

func (c *Client) GetCategory(ctx context.Context, id int64) (*Category, error) {
	data, err := c.get(ctx, fmt.Sprintf("/categories/%d", id))
	if err != nil {
		return nil, err
	}
	return decodeOne[Category](data)
}

func (c *Client) CreateCategory(ctx context.Context, input CategoryInput) (*Category, error) {
	if input.UserID == 0 {
		input.UserID = c.userID()
	}
	data, err := c.post(ctx, "/categories", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Category](data)
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*Category, error) {
	input.UserID = 0
	data, err := c.put(ctx, buildQuery(fmt.Sprintf("/categories/%d", id), c.ownerParams()), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Category](data)
}

// DeleteCategory removes a category. Bookmarks that referenced it are
// reconciled by the server; callers refetch rather than patch local copies.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	_, err := c.del(ctx, buildQuery(fmt.Sprintf("/categories/%d", id), c.ownerParams()))
	return err
}
