package core

import (
	"strings"
	"time"
)

// Metadata holds front matter keys that fall outside the typed schema.
type Metadata map[string]any

// Front matter formats. Detected from the delimiter on read and
// preserved on write so files keep the style their authors chose.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// FrontMatter is the typed metadata header of a post.
type FrontMatter struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Date        time.Time `json:"date"`
	Draft       bool      `json:"draft"`
	Tags        []string  `json:"tags"`
	Keywords    []string  `json:"keywords"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
}

// Post is the central entity of the domain: one markdown document with a
// structured metadata header. It is agnostic to where it is stored.
type Post struct {
	// ID is the content-relative path without extension (e.g. "posts/hello").
	ID     string      `json:"id"`
	Meta   FrontMatter `json:"meta"`
	Extra  Metadata    `json:"extra,omitempty"`
	Body   string      `json:"body"`
	Format string      `json:"format,omitempty"`
}

// PermalinkSlug returns the slug used for URLs, falling back to the last
// path segment of the ID when the front matter carries none.
func (p Post) PermalinkSlug() string {
	if s := strings.TrimSpace(p.Meta.Slug); s != "" {
		return s
	}
	if i := strings.LastIndex(p.ID, "/"); i >= 0 {
		return p.ID[i+1:]
	}
	return p.ID
}

// HasTag reports whether the post carries the given tag.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Meta.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// EventType represents the type of change in the content directory.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change observed in the content directory.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}
