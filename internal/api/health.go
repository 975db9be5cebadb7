package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// Health calls /health and returns its status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	data, err := c.get(ctx, "/health")
	if err != nil {
		return "", err
	}

	var payload struct {
		Status string `json:"status"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if payload.Data.Status != "" {
		return payload.Data.Status, nil
	}
	return payload.Status, nil
}

// LatestHealth returns the most recent link check of every bookmark the
// current user owns.
func (c *Client) LatestHealth(ctx context.Context) ([]HealthResult, error) {
	data, err := c.get(ctx, "/link-health")
	if err != nil {
		return nil, err
	}
	return decodeList[HealthResult](data)
}

// CheckNow asks the server to check one bookmark's link immediately.
func (c *Client) CheckNow(ctx context.Context, bookmarkID int64) (*HealthResult, error) {
	data, err := c.post(ctx, fmt.Sprintf("/link-health/%d/check", bookmarkID), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[HealthResult](data)
}
