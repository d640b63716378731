package domain

import (
	"strings"
	"time"
)

// Session statuses. A session starts as a draft; publishing is one-way.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Session is a wellness session record as stored by the backend.
// ID is empty until the backend assigns one on the first successful save.
type Session struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Tags       []string  `json:"tags"`
	DataURL    string    `json:"dataUrl"`
	Status     string    `json:"status"`
	OwnerEmail string    `json:"ownerEmail,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Pagination is the backend's page metadata for the public session list,
// computed over the tag-filtered set.
type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}

// ParseTags splits a comma-separated tag string into individual tags.
// Whitespace around each tag is trimmed and empty entries are dropped;
// order and duplicates are preserved.
func ParseTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FormatTags renders tags back into the comma-separated form shown in the
// editor's tags field.
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}
