package api

import "context"

// FetchMetadata asks the server to extract title and description from a page.
func (c *Client) FetchMetadata(ctx context.Context, pageURL string) (*URLMetadata, error) {
	data, err := c.get(ctx, buildQuery("/bookmarks/metadata", QueryParams{"url": pageURL}))
	if err != nil {
		return nil, err
	}
	return decodeOne[URLMetadata](data)
}

// SuggestCategory asks the server for a category name fitting the text.
func (c *Client) SuggestCategory(ctx context.Context, input SuggestCategoryInput) (*CategorySuggestion, error) {
	data, err := c.post(ctx, "/bookmarks/suggest-category", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[CategorySuggestion](data)
}
