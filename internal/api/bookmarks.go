package api

import (
	"context"
	"fmt"
)

// --- Bookmark Methods ---

// ListBookmarks returns every bookmark owned by the current user.
func (c *Client) ListBookmarks(ctx context.Context) ([]Bookmark, error) {
	data, err := c.get(ctx, buildQuery("/bookmarks", c.ownerParams()))
	if err != nil {
		return nil, err
	}
	return decodeList[Bookmark](data)
}

// GetBookmark fetches one bookmark by id.
func (c *Client) GetBookmark(ctx context.Context, id int64) (*Bookmark, error) {
	data, err := c.get(ctx, fmt.Sprintf("/bookmarks/%d", id))
	if err != nil {
		return nil, err
	}
	return decodeOne[Bookmark](data)
}

// CreateBookmark stores a new bookmark for the current user.
func (c *Client) CreateBookmark(ctx context.Context, input CreateBookmarkInput) (*Bookmark, error) {
	if input.UserID == 0 {
		input.UserID = c.userID()
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}
	data, err := c.post(ctx, "/bookmarks", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Bookmark](data)
}

// UpdateBookmark replaces a bookmark's editable fields.
func (c *Client) UpdateBookmark(ctx context.Context, id int64, input UpdateBookmarkInput) (*Bookmark, error) {
	if input.Tags == nil {
		input.Tags = []string{}
	}
	data, err := c.put(ctx, buildQuery(fmt.Sprintf("/bookmarks/%d", id), c.ownerParams()), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Bookmark](data)
}

// DeleteBookmark removes a bookmark.
func (c *Client) DeleteBookmark(ctx context.Context, id int64) error {
	_, err := c.del(ctx, buildQuery(fmt.Sprintf("/bookmarks/%d", id), c.ownerParams()))
	return err
}

// SearchBookmarks runs a server-side keyword search. The category filter is
// sent only when categoryID is non-nil; the server ANDs both conditions.
func (c *Client) SearchBookmarks(ctx context.Context, keyword string, categoryID *int64) ([]Bookmark, error) {
	params := QueryParams{"keyword": keyword}
	if categoryID != nil {
		params["categoryId"] = formatID(*categoryID)
	}
	data, err := c.get(ctx, buildQuery("/bookmarks/search", params))
	if err != nil {
		return nil, err
	}
	return decodeList[Bookmark](data)
}
