// Package site renders a content set into a static site: one HTML page per
// post, tag listing pages, a site index, an RSS feed, and a sitemap. Drafts
// are excluded unless the build runs in draft-preview mode.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/yuin/goldmark"

	"github.com/goinkwell/inkwell/pkg/core"
	"github.com/goinkwell/inkwell/pkg/lint"
)

// Options controls a single build.
type Options struct {
	// OutDir is the output directory; it is created if missing.
	OutDir string
	// BaseURL is used for feed and sitemap links (e.g. "https://blog.example.com").
	BaseURL string
	// Title is the site title for the index page and feed.
	Title string
	// IncludeDrafts switches into draft-preview mode: posts with
	// draft = true are rendered instead of excluded.
	IncludeDrafts bool
}

// Page describes one rendered HTML artifact.
type Page struct {
	Route   string // site-absolute route, e.g. "/my-post/"
	File    string // path on disk relative to OutDir
	Title   string
	LastMod time.Time
}

// Result captures the outcome of a build.
type Result struct {
	Pages       []Page
	Skipped     []string // post IDs excluded as drafts
	Warnings    []lint.Issue
	GeneratedAt time.Time
}

// Builder renders posts from a core.Service into static output.
type Builder struct {
	svc      *core.Service
	linter   *lint.Linter
	engine   goldmark.Markdown
	postTmpl *template.Template
	listTmpl *template.Template
	logger   *slog.Logger
}

// New creates a Builder. A nil logger discards output.
func New(svc *core.Service, logger *slog.Logger) (*Builder, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	postTmpl, listTmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Builder{
		svc:      svc,
		linter:   lint.New(),
		engine:   newEngine(),
		postTmpl: postTmpl,
		listTmpl: listTmpl,
		logger:   logger,
	}, nil
}

// Build runs the full pipeline: load, validate, filter, sort, render, write.
// Malformed metadata fails the build with file-and-field errors; a post is
// never silently dropped. Lint warnings are carried into the Result.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	listed, err := b.svc.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	// Full documents: listings are metadata-only.
	posts := make([]core.Post, 0, len(listed))
	var loadErrs []error
	for _, p := range listed {
		full, err := b.svc.GetPost(ctx, p.ID)
		if err != nil {
			loadErrs = append(loadErrs, err)
			continue
		}
		posts = append(posts, full)
	}
	if len(loadErrs) > 0 {
		return nil, errors.Join(loadErrs...)
	}

	result := &Result{GeneratedAt: start}

	var lintErrs []error
	for _, issue := range b.linter.Check(posts) {
		if issue.Severity == lint.SeverityError {
			lintErrs = append(lintErrs, errors.New(issue.String()))
			continue
		}
		b.logger.Warn("content warning", "file", issue.File, "field", issue.Field, "message", issue.Message)
		result.Warnings = append(result.Warnings, issue)
	}
	if len(lintErrs) > 0 {
		return nil, errors.Join(lintErrs...)
	}

	included := posts[:0]
	for _, post := range posts {
		if post.Meta.Draft && !opts.IncludeDrafts {
			b.logger.Debug("draft excluded from published output", "id", post.ID)
			result.Skipped = append(result.Skipped, post.ID)
			continue
		}
		included = append(included, post)
	}

	sort.SliceStable(included, func(i, j int) bool {
		return included[i].Meta.Date.After(included[j].Meta.Date)
	})

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	for _, post := range included {
		page, err := b.renderPost(opts, post)
		if err != nil {
			return nil, err
		}
		result.Pages = append(result.Pages, page)
	}

	tagPages, err := b.renderTagPages(opts, included)
	if err != nil {
		return nil, err
	}
	result.Pages = append(result.Pages, tagPages...)

	indexPage, err := b.renderListing(opts, "index.html", "/", siteTitle(opts), included)
	if err != nil {
		return nil, err
	}
	result.Pages = append(result.Pages, indexPage)

	feed := buildFeed(siteTitle(opts), opts.BaseURL, included, start)
	if err := b.writeFile(opts.OutDir, "feed.xml", []byte(feed)); err != nil {
		return nil, err
	}

	sitemap := buildSitemap(opts.BaseURL, result.Pages, start)
	if err := b.writeFile(opts.OutDir, "sitemap.xml", []byte(sitemap)); err != nil {
		return nil, err
	}

	robots := buildRobots(opts.BaseURL)
	if err := b.writeFile(opts.OutDir, "robots.txt", []byte(robots)); err != nil {
		return nil, err
	}

	b.logger.Info("site built",
		"pages", len(result.Pages),
		"skipped", len(result.Skipped),
		"warnings", len(result.Warnings),
		"elapsed", time.Since(start),
	)
	return result, nil
}

type postView struct {
	Root        string
	Title       string
	Description string
	Keywords    []string
	Author      string
	Date        time.Time
	Tags        []tagRef
	Content     template.HTML
}

// tagRef pairs a tag's display name with its URL-safe route segment.
type tagRef struct {
	Name string
	Slug string
}

type listView struct {
	Root  string
	Title string
	Items []listItem
}

type listItem struct {
	Slug    string
	Title   string
	Date    time.Time
	Summary string
}

func (b *Builder) renderPost(opts Options, post core.Post) (Page, error) {
	content, clean := b.renderMarkdown(post.Body)
	if !clean {
		b.logger.Warn("post rendered best-effort", "id", post.ID)
	}

	view := postView{
		Root:        "/",
		Title:       post.Meta.Title,
		Description: post.Meta.Description,
		Keywords:    post.Meta.Keywords,
		Author:      post.Meta.Author,
		Date:        post.Meta.Date,
		Content:     content,
	}
	for _, tag := range post.Meta.Tags {
		s, ok := b.tagSlug(tag)
		if !ok {
			continue
		}
		view.Tags = append(view.Tags, tagRef{Name: tag, Slug: s})
	}

	permalink := post.PermalinkSlug()
	file := filepath.Join(permalink, "index.html")
	if err := b.executeTo(opts.OutDir, file, b.postTmpl, view); err != nil {
		return Page{}, fmt.Errorf("render post %s: %w", post.ID, err)
	}

	return Page{
		Route:   "/" + permalink + "/",
		File:    file,
		Title:   post.Meta.Title,
		LastMod: post.Meta.Date,
	}, nil
}

// renderTagPages writes one listing page per tag, posts already sorted by
// date descending. Tags are grouped by their slugged form so the raw value
// never reaches an output path.
func (b *Builder) renderTagPages(opts Options, posts []core.Post) ([]Page, error) {
	type tagGroup struct {
		name  string
		posts []core.Post
	}
	groups := make(map[string]*tagGroup)
	for _, post := range posts {
		for _, tag := range post.Meta.Tags {
			s, ok := b.tagSlug(tag)
			if !ok {
				continue
			}
			g, found := groups[s]
			if !found {
				g = &tagGroup{name: tag}
				groups[s] = g
			}
			g.posts = append(g.posts, post)
		}
	}

	slugs := make([]string, 0, len(groups))
	for s := range groups {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)

	var pages []Page
	for _, s := range slugs {
		g := groups[s]
		file := filepath.Join("tags", s, "index.html")
		route := "/tags/" + s + "/"
		page, err := b.renderListing(opts, file, route, "Posts tagged "+g.name, g.posts)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// tagSlug maps a tag to its URL-safe route segment. Tags with no safe form
// get no page.
func (b *Builder) tagSlug(tag string) (string, bool) {
	s, err := slug.Normalize(tag)
	if err != nil || s == "" {
		b.logger.Warn("tag has no URL-safe form, skipping its page", "tag", tag)
		return "", false
	}
	return s, true
}

func (b *Builder) renderListing(opts Options, file, route, title string, posts []core.Post) (Page, error) {
	view := listView{Root: "/", Title: title}
	var lastMod time.Time
	for _, post := range posts {
		view.Items = append(view.Items, listItem{
			Slug:    post.PermalinkSlug(),
			Title:   post.Meta.Title,
			Date:    post.Meta.Date,
			Summary: post.Meta.Summary,
		})
		if post.Meta.Date.After(lastMod) {
			lastMod = post.Meta.Date
		}
	}

	if err := b.executeTo(opts.OutDir, file, b.listTmpl, view); err != nil {
		return Page{}, fmt.Errorf("render listing %s: %w", file, err)
	}
	return Page{Route: route, File: file, Title: title, LastMod: lastMod}, nil
}

func (b *Builder) executeTo(outDir, file string, tmpl *template.Template, view any) error {
	full := filepath.Join(outDir, file)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()
	return tmpl.Execute(f, view)
}

func (b *Builder) writeFile(outDir, file string, data []byte) error {
	full := filepath.Join(outDir, file)
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	return nil
}

func siteTitle(opts Options) string {
	if opts.Title != "" {
		return opts.Title
	}
	return "Posts"
}
