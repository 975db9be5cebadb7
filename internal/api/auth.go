package api

import "context"

// --- Auth Methods ---

// Login exchanges email and password for an access token (unauthenticated).
func (c *Client) Login(ctx context.Context, input LoginInput) (*LoginResponse, error) {
	data, err := c.post(ctx, "/auth/login", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[LoginResponse](data)
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, input SignupInput) (*User, error) {
	data, err := c.post(ctx, "/auth/signup", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[User](data)
}

// Withdraw deletes the authenticated account.
func (c *Client) Withdraw(ctx context.Context) error {
	_, err := c.del(ctx, "/auth/withdraw")
	return err
}
