package workspace

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/linkly-app/linkly-cli/internal/api"
)

// Field limits enforced by the server.
const (
	MaxURLLength   = 500
	MaxTitleLength = 255
)

// FormMode distinguishes composing a new bookmark from editing one.
type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

// Draft is the bookmark being composed or edited. Tags hold the raw
// comma-separated text as typed.
type Draft struct {
	ID          int64
	URL         string
	Title       string
	Description string
	CategoryID  *int64
	Tags        string
}

// DraftFromBookmark seeds an edit form.
func DraftFromBookmark(b api.Bookmark) Draft {
	return Draft{
		ID:          b.ID,
		URL:         b.URL,
		Title:       b.Title,
		Description: b.Description,
		CategoryID:  copyID(b.CategoryID),
		Tags:        strings.Join(b.Tags, ", "),
	}
}

// ValidationError is a draft problem caught before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidURL reports whether raw is an absolute http or https URL with a host.
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// ParseTags splits comma-separated tag text, trimming each tag and dropping
// empties. Order and duplicates are preserved.
func ParseTags(text string) []string {
	tags := []string{}
	for _, part := range strings.Split(text, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Validate checks the fields the server would reject.
func (d Draft) Validate() error {
	rawURL := strings.TrimSpace(d.URL)
	switch {
	case rawURL == "":
		return &ValidationError{Field: "url", Message: "URL is required"}
	case utf8.RuneCountInString(rawURL) > MaxURLLength:
		return &ValidationError{Field: "url", Message: fmt.Sprintf("URL must be at most %d characters", MaxURLLength)}
	case !IsValidURL(rawURL):
		return &ValidationError{Field: "url", Message: "URL must start with http:// or https://"}
	}

	title := strings.TrimSpace(d.Title)
	switch {
	case title == "":
		return &ValidationError{Field: "title", Message: "title is required"}
	case utf8.RuneCountInString(title) > MaxTitleLength:
		return &ValidationError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLength)}
	}
	return nil
}

// CreateInput builds the create request body.
func (d Draft) CreateInput() api.CreateBookmarkInput {
	return api.CreateBookmarkInput{
		URL:         strings.TrimSpace(d.URL),
		Title:       strings.TrimSpace(d.Title),
		Description: optionalText(d.Description),
		CategoryID:  copyID(d.CategoryID),
		Tags:        ParseTags(d.Tags),
	}
}

// UpdateInput builds the update request body.
func (d Draft) UpdateInput() api.UpdateBookmarkInput {
	return api.UpdateBookmarkInput{
		URL:         strings.TrimSpace(d.URL),
		Title:       strings.TrimSpace(d.Title),
		Description: optionalText(d.Description),
		CategoryID:  copyID(d.CategoryID),
		Tags:        ParseTags(d.Tags),
	}
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
