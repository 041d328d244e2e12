package core

import "context"

// Repository defines the contract for storing and retrieving posts.
// Adhering to this interface keeps the core independent of the underlying
// storage mechanism (filesystem, object store, database).
type Repository interface {
	// Save persists a post. It creates if not exists, or updates if it does.
	Save(ctx context.Context, p Post) error

	// Get retrieves a post by its ID, including its body.
	Get(ctx context.Context, id string) (Post, error)

	// List returns the metadata of all posts. Bodies may be omitted;
	// callers needing the full document follow up with Get.
	List(ctx context.Context) ([]Post, error)

	// Delete removes a post by its ID.
	Delete(ctx context.Context, id string) error

	// Initialize ensures the underlying storage is ready
	// (e.g. create the content directory).
	Initialize(ctx context.Context) error
}

// Watchable defines an interface for repositories that can observe changes.
type Watchable interface {
	// Watch emits events for content matching the glob pattern until the
	// context is cancelled.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
