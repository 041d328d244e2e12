package core_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/goinkwell/inkwell/pkg/core"
)

// MockRepository implements core.Repository in memory.
// It deliberately does NOT implement core.Watchable to test capability errors.
type MockRepository struct {
	posts map[string]core.Post
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		posts: make(map[string]core.Post),
	}
}

func (m *MockRepository) Save(ctx context.Context, p core.Post) error {
	m.posts[p.ID] = p
	return nil
}

func (m *MockRepository) Get(ctx context.Context, id string) (core.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return core.Post{}, core.ErrNotFound
	}
	return post, nil
}

func (m *MockRepository) List(ctx context.Context) ([]core.Post, error) {
	var posts []core.Post
	for _, post := range m.posts {
		posts = append(posts, post)
	}
	// Sort for deterministic tests
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.posts[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *MockRepository) Initialize(ctx context.Context) error { return nil }

func TestService_CreatePost(t *testing.T) {
	repo := NewMockRepository()
	svc := core.NewService(repo, nil)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "Writing a Custom Kafka Health Indicator in Spring Boot")
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if post.Meta.Slug != "writing-a-custom-kafka-health-indicator-in-spring-boot" {
		t.Errorf("unexpected slug: %q", post.Meta.Slug)
	}
	if !post.Meta.Draft {
		t.Error("new posts should start as drafts")
	}
	if post.Meta.Date.IsZero() {
		t.Error("new posts should have a stamped date")
	}

	if _, ok := repo.posts[post.ID]; !ok {
		t.Error("post was not persisted")
	}
}

func TestService_CreatePost_EmptyTitle(t *testing.T) {
	svc := core.NewService(NewMockRepository(), nil)
	if _, err := svc.CreatePost(context.Background(), ""); err == nil {
		t.Error("expected error for empty title")
	}
}

func TestService_SavePost_InvalidSlug(t *testing.T) {
	svc := core.NewService(NewMockRepository(), nil)

	err := svc.SavePost(context.Background(), core.Post{
		ID:   "bad",
		Meta: core.FrontMatter{Slug: "Not A Slug!"},
	})
	if err == nil {
		t.Fatal("expected error for invalid slug")
	}

	var fieldErr *core.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %T", err)
	}
	if fieldErr.Field != "slug" {
		t.Errorf("expected slug field error, got %q", fieldErr.Field)
	}
}

func TestService_EmptyID(t *testing.T) {
	svc := core.NewService(NewMockRepository(), nil)
	ctx := context.Background()

	if err := svc.SavePost(ctx, core.Post{}); !errors.Is(err, core.ErrEmptyID) {
		t.Errorf("SavePost: expected ErrEmptyID, got %v", err)
	}
	if _, err := svc.GetPost(ctx, ""); !errors.Is(err, core.ErrEmptyID) {
		t.Errorf("GetPost: expected ErrEmptyID, got %v", err)
	}
	if err := svc.DeletePost(ctx, ""); !errors.Is(err, core.ErrEmptyID) {
		t.Errorf("DeletePost: expected ErrEmptyID, got %v", err)
	}
}

func TestService_Publish(t *testing.T) {
	repo := NewMockRepository()
	svc := core.NewService(repo, nil)
	ctx := context.Background()

	repo.posts["draft-post"] = core.Post{
		ID: "draft-post",
		Meta: core.FrontMatter{
			Title: "Draft",
			Slug:  "draft-post",
			Draft: true,
		},
	}

	post, err := svc.Publish(ctx, "draft-post")
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if post.Meta.Draft {
		t.Error("published post still marked draft")
	}
	if post.Meta.Date.IsZero() {
		t.Error("publish should stamp a missing date")
	}

	if repo.posts["draft-post"].Meta.Draft {
		t.Error("published state was not persisted")
	}
}

func TestService_Publish_AlreadyPublished(t *testing.T) {
	repo := NewMockRepository()
	svc := core.NewService(repo, nil)

	date := time.Date(2023, 8, 27, 9, 0, 0, 0, time.UTC)
	repo.posts["live"] = core.Post{
		ID:   "live",
		Meta: core.FrontMatter{Title: "Live", Slug: "live", Date: date},
	}

	post, err := svc.Publish(context.Background(), "live")
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !post.Meta.Date.Equal(date) {
		t.Error("publishing an already-published post must not restamp the date")
	}
}

func TestService_Watch_Unsupported(t *testing.T) {
	svc := core.NewService(NewMockRepository(), nil)
	if _, err := svc.Watch(context.Background(), "**/*"); err == nil {
		t.Error("expected error for non-watchable repository")
	}
}

func TestPost_PermalinkSlug(t *testing.T) {
	tests := []struct {
		name string
		post core.Post
		want string
	}{
		{"from front matter", core.Post{ID: "posts/a", Meta: core.FrontMatter{Slug: "my-slug"}}, "my-slug"},
		{"from nested id", core.Post{ID: "posts/fallback"}, "fallback"},
		{"from flat id", core.Post{ID: "fallback"}, "fallback"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.post.PermalinkSlug(); got != tc.want {
				t.Errorf("PermalinkSlug() = %q, want %q", got, tc.want)
			}
		})
	}
}
