package site_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goinkwell/inkwell/pkg/adapters/fs"
	"github.com/goinkwell/inkwell/pkg/core"
	"github.com/goinkwell/inkwell/pkg/site"
)

const fixtureID = "custom-kafka-health-indicator-spring-boot"

func newTestBuilder(t *testing.T) (*site.Builder, *core.Service, string) {
	t.Helper()

	contentDir := t.TempDir()
	src, err := os.ReadFile(filepath.Join("testdata", "content", fixtureID+".md"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, fixtureID+".md"), src, 0o644))

	repo := fs.NewRepository(fs.Config{Path: contentDir})
	require.NoError(t, repo.Initialize(context.Background()))
	svc := core.NewService(repo, nil)

	builder, err := site.New(svc, nil)
	require.NoError(t, err)
	return builder, svc, contentDir
}

func TestBuild_ExcludesDrafts(t *testing.T) {
	builder, _, _ := newTestBuilder(t)
	outDir := t.TempDir()

	result, err := builder.Build(context.Background(), site.Options{OutDir: outDir})
	require.NoError(t, err)

	assert.Contains(t, result.Skipped, fixtureID)
	_, err = os.Stat(filepath.Join(outDir, fixtureID, "index.html"))
	assert.True(t, os.IsNotExist(err), "draft posts must not be rendered")

	for _, page := range result.Pages {
		assert.NotEqual(t, "/"+fixtureID+"/", page.Route)
	}

	// The shell of the site is still produced.
	for _, name := range []string{"index.html", "feed.xml", "sitemap.xml", "robots.txt"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestBuild_DraftPreview(t *testing.T) {
	builder, _, _ := newTestBuilder(t)
	outDir := t.TempDir()

	result, err := builder.Build(context.Background(), site.Options{
		OutDir:        outDir,
		IncludeDrafts: true,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Skipped)

	html, err := os.ReadFile(filepath.Join(outDir, fixtureID, "index.html"))
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "<title>Writing a Custom Kafka Health Indicator in Spring Boot</title>")
	assert.Contains(t, page, "Jane Okafor")
	// Fenced code blocks survive markdown rendering.
	assert.Contains(t, page, "KafkaHealthIndicator")

	// Tag pages exist for every tag on the post.
	for _, tag := range []string{"kafka", "spring-boot", "actuator", "java"} {
		_, err := os.Stat(filepath.Join(outDir, "tags", tag, "index.html"))
		assert.NoError(t, err, tag)
	}
}

func TestBuild_WarnsOnEncodingAnomalies(t *testing.T) {
	builder, _, _ := newTestBuilder(t)

	result, err := builder.Build(context.Background(), site.Options{
		OutDir:        t.TempDir(),
		IncludeDrafts: true,
	})
	require.NoError(t, err)

	var found bool
	for _, issue := range result.Warnings {
		if issue.Field == "body" && strings.Contains(issue.Message, "encoding") {
			found = true
		}
	}
	assert.True(t, found, "mangled body should surface as a warning, got %v", result.Warnings)
}

func TestBuild_OrdersByDateDescending(t *testing.T) {
	builder, svc, _ := newTestBuilder(t)
	outDir := t.TempDir()

	older := core.Post{
		ID: "older",
		Meta: core.FrontMatter{
			Title:    "Older Post",
			Slug:     "older-post",
			Date:     time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			Tags:     []string{"kafka"},
			Keywords: []string{"kafka"},
			Summary:  "s",
		},
		Body: "older\n",
	}
	newer := older
	newer.ID = "newer"
	newer.Meta.Title = "Newer Post"
	newer.Meta.Slug = "newer-post"
	newer.Meta.Date = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer.Body = "newer\n"

	require.NoError(t, svc.SavePost(context.Background(), older))
	require.NoError(t, svc.SavePost(context.Background(), newer))

	_, err := builder.Build(context.Background(), site.Options{OutDir: outDir})
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	require.NoError(t, err)

	listing := string(index)
	require.Contains(t, listing, "newer-post")
	require.Contains(t, listing, "older-post")
	assert.Less(t,
		strings.Index(listing, "newer-post"),
		strings.Index(listing, "older-post"),
		"newest post should be listed first")
}

func TestBuild_RendersBrokenMarkdownBestEffort(t *testing.T) {
	builder, svc, _ := newTestBuilder(t)
	outDir := t.TempDir()

	post := core.Post{
		ID: "rough-draft",
		Meta: core.FrontMatter{
			Title:    "Rough Draft",
			Slug:     "rough-draft",
			Date:     time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
			Tags:     []string{"kafka"},
			Keywords: []string{"kafka"},
			Summary:  "A post with broken markdown.",
		},
		Body: "An unclosed code fence:\n\n```java\npublic class Half {",
	}
	require.NoError(t, svc.SavePost(context.Background(), post))

	result, err := builder.Build(context.Background(), site.Options{OutDir: outDir})
	require.NoError(t, err, "broken markdown must never fail the build")

	var routes []string
	for _, page := range result.Pages {
		routes = append(routes, page.Route)
	}
	assert.Contains(t, routes, "/rough-draft/")

	html, err := os.ReadFile(filepath.Join(outDir, "rough-draft", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "public class Half", "body content must survive rendering")
}

func TestBuild_FailsOnInvalidFrontMatter(t *testing.T) {
	builder, svc, _ := newTestBuilder(t)

	broken := core.Post{
		ID: "broken",
		Meta: core.FrontMatter{
			Title: "No slug, no date",
		},
		Body: "text\n",
	}
	require.NoError(t, svc.SavePost(context.Background(), broken))

	_, err := builder.Build(context.Background(), site.Options{
		OutDir:        t.TempDir(),
		IncludeDrafts: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.md")
}

func TestBuild_TagRoutesAreSlugged(t *testing.T) {
	builder, svc, _ := newTestBuilder(t)
	outDir := t.TempDir()

	post := core.Post{
		ID: "tagged",
		Meta: core.FrontMatter{
			Title:    "Tagged Post",
			Slug:     "tagged-post",
			Date:     time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			Tags:     []string{"Spring Boot", "../escape"},
			Keywords: []string{"tags"},
			Summary:  "Tags with unruly values.",
		},
		Body: "tagged\n",
	}
	require.NoError(t, svc.SavePost(context.Background(), post))

	result, err := builder.Build(context.Background(), site.Options{OutDir: outDir})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "tags", "spring-boot", "index.html"))
	assert.NoError(t, err, "tag route should use the slugged form")
	_, err = os.Stat(filepath.Join(outDir, "tags", "Spring Boot"))
	assert.True(t, os.IsNotExist(err), "raw tag value must not become a path")

	for _, page := range result.Pages {
		assert.True(t, filepath.IsLocal(page.File), "page escaped the output dir: %s", page.File)
	}

	html, err := os.ReadFile(filepath.Join(outDir, "tagged-post", "index.html"))
	require.NoError(t, err)
	page := string(html)
	assert.Contains(t, page, `href="/tags/spring-boot/"`)
	assert.Contains(t, page, ">Spring Boot</a>", "display name keeps its original form")
}

func TestBuild_FeedAndSitemapLinks(t *testing.T) {
	builder, _, _ := newTestBuilder(t)
	outDir := t.TempDir()

	_, err := builder.Build(context.Background(), site.Options{
		OutDir:        outDir,
		BaseURL:       "https://blog.example.com",
		IncludeDrafts: true,
	})
	require.NoError(t, err)

	feed, err := os.ReadFile(filepath.Join(outDir, "feed.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(feed), "https://blog.example.com/"+fixtureID+"/")

	sitemap, err := os.ReadFile(filepath.Join(outDir, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "https://blog.example.com/"+fixtureID+"/")

	robots, err := os.ReadFile(filepath.Join(outDir, "robots.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(robots), "Sitemap: https://blog.example.com/sitemap.xml")
}
