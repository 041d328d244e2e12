package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	slug "github.com/goliatone/go-slug"
)

// Service handles the business logic for posts.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new Service. A nil logger discards output.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// CreatePost scaffolds a new draft post from a title. The slug is derived
// from the title, the date is stamped, and draft starts true so the post
// stays out of published output until explicitly published.
func (s *Service) CreatePost(ctx context.Context, title string) (Post, error) {
	if title == "" {
		return Post{}, errors.New("post title cannot be empty")
	}

	normalized, err := slug.Normalize(title)
	if err != nil {
		return Post{}, fmt.Errorf("derive slug from title: %w", err)
	}

	post := Post{
		ID:     normalized,
		Format: FormatTOML,
		Meta: FrontMatter{
			Title: title,
			Slug:  normalized,
			Date:  s.now(),
			Draft: true,
		},
	}

	if err := s.repo.Save(ctx, post); err != nil {
		return Post{}, err
	}

	s.logger.Info("post created", "id", post.ID, "slug", post.Meta.Slug)
	return post, nil
}

// SavePost persists a post after basic domain validation.
func (s *Service) SavePost(ctx context.Context, p Post) error {
	if p.ID == "" {
		return ErrEmptyID
	}
	if p.Meta.Slug != "" && !slug.IsValid(p.Meta.Slug) {
		return NewFieldError(p.ID, "slug", fmt.Errorf("%q is not a valid slug", p.Meta.Slug))
	}
	return s.repo.Save(ctx, p)
}

// GetPost retrieves a post by ID.
func (s *Service) GetPost(ctx context.Context, id string) (Post, error) {
	if id == "" {
		return Post{}, ErrEmptyID
	}
	return s.repo.Get(ctx, id)
}

// ListPosts retrieves all posts. Bodies may be empty on index-backed
// repositories; use GetPost for the full document.
func (s *Service) ListPosts(ctx context.Context) ([]Post, error) {
	return s.repo.List(ctx)
}

// DeletePost removes a post.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	return s.repo.Delete(ctx, id)
}

// Publish flips a draft post to published, stamping the date if the author
// never set one.
func (s *Service) Publish(ctx context.Context, id string) (Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return Post{}, err
	}

	if !post.Meta.Draft {
		return post, nil
	}

	post.Meta.Draft = false
	if post.Meta.Date.IsZero() {
		post.Meta.Date = s.now()
	}

	if err := s.repo.Save(ctx, post); err != nil {
		return Post{}, err
	}

	s.logger.Info("post published", "id", post.ID)
	return post, nil
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, pattern)
}
