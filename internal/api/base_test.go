package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestNewClientEmptyBaseURLUsesDefault(t *testing.T) {
	var gotURL string
	client := NewClient("  ", staticCreds{token: "tok"})
	client.httpClient.Transport = roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		body := `{"success":true,"data":{"id":1,"title":"Alpha","url":"https://a.example","tags":[]}}`
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	})

	_, err := client.GetBookmark(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotURL, DefaultBaseURL))
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client := NewClient("http://example.com/", nil)
	assert.Equal(t, "http://example.com", client.BaseURL())
}
