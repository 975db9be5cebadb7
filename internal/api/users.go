package api

import (
	"context"
	"fmt"
)

// --- User Methods (admin) ---

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	data, err := c.get(ctx, "/users")
	if err != nil {
		return nil, err
	}
	return decodeList[User](data)
}

// FindUserByEmail looks up a single account by email.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	data, err := c.get(ctx, buildQuery("/users", QueryParams{"email": email}))
	if err != nil {
		return nil, err
	}
	return decodeOne[User](data)
}

func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	data, err := c.get(ctx, fmt.Sprintf("/users/%d", id))
	if err != nil {
		return nil, err
	}
	return decodeOne[User](data)
}

func (c *Client) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	data, err := c.post(ctx, "/users", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[User](data)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (*User, error) {
	data, err := c.put(ctx, fmt.Sprintf("/users/%d", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[User](data)
}

// UpdateUserRole promotes or demotes an account.
func (c *Client) UpdateUserRole(ctx context.Context, id int64, role string) (*User, error) {
	data, err := c.patch(ctx, fmt.Sprintf("/users/%d/role", id), map[string]string{"role": role})
	if err != nil {
		return nil, err
	}
	return decodeOne[User](data)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	_, err := c.del(ctx, fmt.Sprintf("/users/%d", id))
	return err
}
