package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goinkwell/inkwell/pkg/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo := NewRepository(Config{Path: t.TempDir()})
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return repo
}

func samplePost(id string) core.Post {
	return core.Post{
		ID:     id,
		Format: core.FormatTOML,
		Meta: core.FrontMatter{
			Title:    "Sample " + id,
			Slug:     id,
			Date:     time.Date(2023, 8, 27, 9, 0, 0, 0, time.UTC),
			Draft:    false,
			Tags:     []string{"testing"},
			Keywords: []string{"sample"},
			Summary:  "A sample post.",
			Author:   "Jane Okafor",
		},
		Body: "Sample body.\n",
	}
}

func TestRepository_SaveGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	post := samplePost("hello-world")
	if err := repo.Save(ctx, post); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(repo.Path, "hello-world.md")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	got, err := repo.Get(ctx, "hello-world")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Meta.Title != post.Meta.Title {
		t.Errorf("title = %q, want %q", got.Meta.Title, post.Meta.Title)
	}
	if got.Body != post.Body {
		t.Errorf("body = %q, want %q", got.Body, post.Body)
	}
	if !got.Meta.Date.Equal(post.Meta.Date) {
		t.Errorf("date = %v, want %v", got.Meta.Date, post.Meta.Date)
	}
}

func TestRepository_SaveNested(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, samplePost("series/part-one")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Get(ctx, "series/part-one")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != "series/part-one" {
		t.Errorf("ID = %q", got.ID)
	}
}

func TestRepository_GetNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_GetMalformed(t *testing.T) {
	repo := newTestRepo(t)

	broken := "+++\ntitle = \"Broken\"\n\nno closing fence"
	if err := os.WriteFile(filepath.Join(repo.Path, "broken.md"), []byte(broken), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := repo.Get(context.Background(), "broken")
	if err == nil {
		t.Fatal("expected error for malformed front matter")
	}

	var fieldErr *core.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %T: %v", err, err)
	}
	if fieldErr.File != "broken.md" {
		t.Errorf("error should name the file, got %q", fieldErr.File)
	}
}

func TestRepository_List(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"alpha", "beta", "series/gamma"} {
		if err := repo.Save(ctx, samplePost(id)); err != nil {
			t.Fatalf("Save %s failed: %v", id, err)
		}
	}
	// Non-markdown files are ignored.
	if err := os.WriteFile(filepath.Join(repo.Path, "notes.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatal(err)
	}

	posts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}

	ids := make(map[string]bool)
	for _, post := range posts {
		ids[post.ID] = true
		if post.Meta.Title == "" {
			t.Errorf("post %s listed without metadata", post.ID)
		}
	}
	if !ids["series/gamma"] {
		t.Error("nested post missing from listing")
	}
}

func TestRepository_ListUsesCache(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, samplePost("cached")); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.List(ctx); err != nil {
		t.Fatalf("first List failed: %v", err)
	}

	indexPath := filepath.Join(repo.Path, DefaultSystemDir, "index.json")
	if _, err := os.Stat(indexPath); err != nil {
		t.Fatalf("index cache not written: %v", err)
	}

	// A second repository over the same directory reads the persisted index.
	repo2 := NewRepository(Config{Path: repo.Path})
	posts, err := repo2.List(ctx)
	if err != nil {
		t.Fatalf("second List failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Meta.Title != "Sample cached" {
		t.Errorf("cache round-trip lost metadata: %+v", posts)
	}
}

func TestRepository_ListFailsOnMalformed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	broken := "+++\ntitle = \"Broken\"\n\nno closing fence"
	if err := os.WriteFile(filepath.Join(repo.Path, "broken.md"), []byte(broken), 0644); err != nil {
		t.Fatal(err)
	}

	// A malformed post surfaces as an error; it is not silently dropped.
	if _, err := repo.List(ctx); err == nil {
		t.Error("expected List to fail on malformed post")
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, samplePost("doomed")); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := repo.Get(ctx, "doomed"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.Delete(ctx, "doomed"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestRepository_MustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	repo := NewRepository(Config{Path: missing, MustExist: true})

	if err := repo.Initialize(context.Background()); err == nil {
		t.Error("expected error for missing content directory")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.md")

	if err := writeFileAtomic(target, []byte("one"), 0644); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := writeFileAtomic(target, []byte("two"), 0644); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two" {
		t.Errorf("content = %q, want %q", data, "two")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file in dir, found %d", len(entries))
	}
}
