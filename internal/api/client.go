package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

// Credentials supplies the bearer token and owning user for each request.
// A nil Credentials or an empty token sends the request unauthenticated.
type Credentials interface {
	Token() string
	UserID() int64
}

// Client wraps HTTP calls to the Linkly REST API.
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
}

// NewClient creates a new API client. An empty baseURL means DefaultBaseURL.
func NewClient(baseURL string, creds Credentials, timeout ...time.Duration) *Client {
	httpTimeout := 10 * time.Second
	if len(timeout) > 0 && timeout[0] > 0 {
		httpTimeout = timeout[0]
	}
	return &Client{
		baseURL: normalizeBaseURL(baseURL),
		creds:   creds,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

// WithTimeout clones the client with a different HTTP timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	return NewClient(c.baseURL, c.creds, timeout)
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) token() string {
	if c.creds == nil {
		return ""
	}
	return c.creds.Token()
}

func (c *Client) userID() int64 {
	if c.creds == nil {
		return 0
	}
	return c.creds.UserID()
}

// do executes an HTTP request and returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, 0, err
		}
		zlog.Warn().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("network error")
		return nil, 0, &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		remote := &RemoteError{StatusCode: resp.StatusCode}
		if msg, details, ok := extractAPIErrorBody(respBody); ok {
			remote.Message = msg
			remote.Details = details
		} else {
			remote.Message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		}
		zlog.Warn().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Str("request_id", requestID).Msg(remote.Message)
		return nil, resp.StatusCode, remote
	}

	return respBody, resp.StatusCode, nil
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	body, _, err := c.do(ctx, http.MethodGet, path, nil)
	return body, err
}

// post performs a POST request.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	b, _, err := c.do(ctx, http.MethodPost, path, body)
	return b, err
}

// put performs a PUT request.
func (c *Client) put(ctx context.Context, path string, body any) ([]byte, error) {
	b, _, err := c.do(ctx, http.MethodPut, path, body)
	return b, err
}

// patch performs a PATCH request.
func (c *Client) patch(ctx context.Context, path string, body any) ([]byte, error) {
	b, _, err := c.do(ctx, http.MethodPatch, path, body)
	return b, err
}

// del performs a DELETE request.
func (c *Client) del(ctx context.Context, path string) ([]byte, error) {
	b, _, err := c.do(ctx, http.MethodDelete, path, nil)
	return b, err
}

// decodeOne decodes a single-item API response.
func decodeOne[T any](data []byte) (*T, error) {
	var resp apiResponse[T]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp.Data, nil
}

// decodeList decodes a list API response.
func decodeList[T any](data []byte) ([]T, error) {
	var resp apiResponse[[]T]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Data, nil
}

// buildQuery appends query params to a path.
func buildQuery(path string, params QueryParams) string {
	if len(params) == 0 {
		return path
	}
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// ownerParams returns the userId query param when the session knows the user.
func (c *Client) ownerParams() QueryParams {
	if id := c.userID(); id > 0 {
		return QueryParams{"userId": formatID(id)}
	}
	return nil
}

func extractAPIErrorBody(body []byte) (string, string, bool) {
	if len(body) == 0 {
		return "", "", false
	}

	var envelope apiResponse[any]
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		msg := strings.TrimSpace(envelope.Error.Message)
		if msg != "" {
			return msg, strings.TrimSpace(envelope.Error.Details), true
		}
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", "", false
	}

	if msg, ok := parseErrorValue(payload["message"]); ok {
		return msg, "", true
	}
	if msg, ok := parseErrorValue(payload["error"]); ok {
		return msg, "", true
	}
	return "", "", false
}

func parseErrorValue(raw any) (string, bool) {
	switch value := raw.(type) {
	case string:
		msg := strings.TrimSpace(value)
		if msg == "" {
			return "", false
		}
		return msg, true
	case map[string]any:
		return parseErrorValue(value["message"])
	}
	return "", false
}
