// Package inkwell is the composition root for the inkwell content engine.
//
// It connects the core domain (posts with structured front matter) with the
// infrastructure adapters (filesystem content repository) and the rendering
// pipeline, following a hexagonal layout.
//
// Philosophy:
//
// inkwell treats a static-site content directory as a typed database of
// posts. Each post is one markdown file whose front matter block (TOML +++,
// YAML ---, or JSON) carries the publication metadata a site generator needs:
// title, slug, date, draft state, tags, keywords, summary, description,
// author. The engine parses, validates, and renders that content while
// guaranteeing that malformed metadata fails loudly with file-and-field
// errors rather than silently dropping a post.
//
// Usage:
//
//	svc, err := inkwell.New("./content",
//		inkwell.WithLogger(logger),
//	)
//
//	post, err := svc.CreatePost(ctx, "Writing a Custom Kafka Health Indicator in Spring Boot")
package inkwell

import (
	"log/slog"

	"github.com/goinkwell/inkwell/internal/platform"
	"github.com/goinkwell/inkwell/pkg/core"
)

// --- Types ---

// Post is a public alias for the domain entity.
type Post = core.Post

// FrontMatter is a public alias for the typed metadata header.
type FrontMatter = core.FrontMatter

// Metadata is a public alias for untyped front matter keys.
type Metadata = core.Metadata

// Event is a public alias for content change notifications.
type Event = core.Event

// --- Configuration ---

// Option defines a functional option for configuring inkwell.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithMustExist requires the content directory to already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithSystemDir overrides the hidden index directory name (e.g. ".inkwell").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sizes the watch event channel.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithRepository injects a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// --- Factory ---

// New creates a new inkwell Service over a content directory.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Open creates a Service over an existing content directory. Unlike New it
// fails when the directory is missing instead of creating it.
func Open(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, append(opts, platform.WithMustExist(true))...)
}

// Init initializes a content repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}
