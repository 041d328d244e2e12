package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goinkwell/inkwell/pkg/core"
)

// DefaultSystemDir is the hidden directory holding the index cache.
const DefaultSystemDir = ".inkwell"

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	MustExist bool
	Logger    *slog.Logger
	SystemDir string // e.g. ".inkwell"
	// EventBuffer sizes the watch event channel. Zero means default (100).
	EventBuffer int
}

// Repository implements core.Repository over a content directory of
// markdown files with front matter.
type Repository struct {
	Path   string
	config Config
	cache  *cache
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:   config.Path,
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
	}
}

// Initialize ensures the content directory exists.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("content path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("content path is not a directory: %s", r.Path)
		}
		return nil
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create content directory: %w", err)
	}
	return nil
}

// Save serializes a post and writes it atomically to disk.
func (r *Repository) Save(ctx context.Context, p core.Post) error {
	if p.ID == "" {
		return core.ErrEmptyID
	}

	relPath := r.fileFor(p.ID)
	fullPath := filepath.Join(r.Path, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := EncodePost(p)
	if err != nil {
		return fmt.Errorf("failed to serialize post %s: %w", p.ID, err)
	}

	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.cache.Delete(relPath)
	return nil
}

// Get retrieves a post from the filesystem, body included.
func (r *Repository) Get(ctx context.Context, id string) (core.Post, error) {
	if id == "" {
		return core.Post{}, core.ErrEmptyID
	}

	relPath := r.fileFor(id)
	f, err := os.Open(filepath.Join(r.Path, relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return core.Post{}, fmt.Errorf("%s: %w", id, core.ErrNotFound)
		}
		return core.Post{}, err
	}
	defer f.Close()

	post, err := DecodePost(f)
	if err != nil {
		return core.Post{}, core.NewFieldError(relPath, "frontmatter", err)
	}
	post.ID = id

	return *post, nil
}

// List scans the content directory for all posts.
//
// Strategy:
//  1. Load existing cache (front matter index) from disk.
//  2. Walk the tree, skipping the system dir and hidden directories.
//  3. For each markdown file, use the cached front matter when the mtime
//     matches; otherwise parse the file and update the cache.
//  4. Persist the pruned cache.
//
// Returned posts carry metadata only; bodies are loaded by Get.
func (r *Repository) List(ctx context.Context) ([]core.Post, error) {
	if err := r.cache.Load(); err != nil {
		r.config.Logger.Debug("index cache load failed, rebuilding", "error", err)
	}

	var posts []core.Post
	seen := make(map[string]bool)

	err := filepath.WalkDir(r.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == r.config.SystemDir || strings.HasPrefix(d.Name(), ".") && path != r.Path {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) != ".md" || strings.HasPrefix(d.Name(), TempFilePrefix) {
			return nil
		}

		relPath, err := filepath.Rel(r.Path, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		id := strings.TrimSuffix(relPath, ".md")

		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()
		seen[relPath] = true

		if entry, hit := r.cache.Get(relPath, mtime); hit {
			posts = append(posts, core.Post{
				ID:     entry.ID,
				Meta:   entry.Meta,
				Extra:  entry.Extra,
				Format: entry.Format,
			})
			return nil
		}

		post, err := r.Get(ctx, id)
		if err != nil {
			// Malformed posts are surfaced, never silently dropped.
			return err
		}

		r.cache.Set(relPath, &indexEntry{
			ID:           id,
			Meta:         post.Meta,
			Extra:        post.Extra,
			Format:       post.Format,
			LastModified: mtime,
		})

		post.Body = ""
		posts = append(posts, post)
		return nil
	})

	if err != nil {
		return nil, err
	}

	r.cache.Prune(seen)
	if err := r.cache.Save(); err != nil {
		r.config.Logger.Debug("index cache save failed", "error", err)
	}

	return posts, nil
}

// Delete removes a post file.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return core.ErrEmptyID
	}

	relPath := r.fileFor(id)
	fullPath := filepath.Join(r.Path, relPath)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", id, core.ErrNotFound)
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	r.cache.Delete(relPath)
	return nil
}

// fileFor maps a post ID to its content-relative filename.
func (r *Repository) fileFor(id string) string {
	if filepath.Ext(id) == ".md" {
		return filepath.FromSlash(id)
	}
	return filepath.FromSlash(id) + ".md"
}

// resolveID maps an absolute content file path back to a post ID.
func (r *Repository) resolveID(path string) (string, error) {
	relPath, err := filepath.Rel(r.Path, path)
	if err != nil {
		return "", err
	}
	relPath = filepath.ToSlash(relPath)
	return strings.TrimSuffix(relPath, ".md"), nil
}
