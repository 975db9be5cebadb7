package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// QueryParams maps query string keys to values; empty values are dropped.
type QueryParams map[string]string

// --- API Response Envelope ---

type apiResponse[T any] struct {
	Success bool    `json:"success"`
	Data    T       `json:"data"`
	Error   *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Timestamp accepts RFC 3339 and the zone-less local date-time the server emits.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Not a string (null or number): leave zero.
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// --- Bookmark ---

// Bookmark is a saved link owned by a user.
type Bookmark struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	CategoryID   *int64    `json:"categoryId,omitempty"`
	CategoryName string    `json:"categoryName,omitempty"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Tags         []string  `json:"tags"`
	CreatedAt    Timestamp `json:"createdAt"`
	UpdatedAt    Timestamp `json:"updatedAt"`
}

// HasCategory reports whether the bookmark references categoryID.
func (b Bookmark) HasCategory(categoryID int64) bool {
	return b.CategoryID != nil && *b.CategoryID == categoryID
}

// CreateBookmarkInput defines the fields required to create a bookmark.
type CreateBookmarkInput struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	CategoryID  *int64   `json:"categoryId"`
	Tags        []string `json:"tags"`
	UserID      int64    `json:"userId,omitempty"`
}

// UpdateBookmarkInput replaces the editable fields of a bookmark. Tags are
// replaced wholesale and a nil CategoryID clears the category.
type UpdateBookmarkInput struct {
	URL         string   `json:"url,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description *string  `json:"description"`
	CategoryID  *int64   `json:"categoryId"`
	Tags        []string `json:"tags"`
}

// --- Category ---

// Category groups bookmarks; names are unique per user.
type Category struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// CategoryInput is the create/update body for categories.
type CategoryInput struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	UserID      int64  `json:"userId,omitempty"`
}

// --- Link health ---

// Known link health statuses.
const (
	StatusHealthy = "HEALTHY"
	StatusDead    = "DEAD"
	StatusTimeout = "TIMEOUT"
	StatusUnknown = "UNKNOWN"
)

// HealthResult is the latest link check for one bookmark.
type HealthResult struct {
	BookmarkID     int64     `json:"bookmarkId"`
	BookmarkTitle  string    `json:"bookmarkTitle,omitempty"`
	BookmarkURL    string    `json:"bookmarkUrl,omitempty"`
	Status         string    `json:"status"`
	HTTPStatus     *int      `json:"httpStatus,omitempty"`
	ResponseTimeMS int64     `json:"responseTimeMs"`
	CheckedAt      Timestamp `json:"checkedAt"`
}

// --- Metadata & suggestion ---

// URLMetadata is what the server could extract from a page.
type URLMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// SuggestCategoryInput is the body for a category suggestion.
type SuggestCategoryInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CategorySuggestion names a suggested category, or nothing.
type CategorySuggestion struct {
	SuggestedCategory string `json:"suggestedCategory,omitempty"`
}

// --- Auth & users ---

// Roles a user account can hold.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// LoginInput is the credential pair for /auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupInput registers a new account.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	UserID      int64  `json:"userId"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
}

// User is an account as seen by an administrator.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// CreateUserInput creates an account directly (admin).
type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UpdateUserInput changes name and/or password.
type UpdateUserInput struct {
	Password string `json:"password,omitempty"`
	Name     string `json:"name,omitempty"`
}
