package site

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/goinkwell/inkwell/pkg/core"
)

const maxFeedItems = 100

// buildFeed renders an RSS 2.0 document for the newest posts. Input is
// assumed sorted newest first.
func buildFeed(title, baseURL string, posts []core.Post, generatedAt time.Time) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "http://localhost"
	}
	if title == "" {
		title = base
	}

	items := posts
	if len(items) > maxFeedItems {
		items = items[:maxFeedItems]
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0">` + "\n")
	b.WriteString("  <channel>\n")
	b.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(title)))
	b.WriteString(fmt.Sprintf("    <link>%s/</link>\n", base))
	b.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))

	for _, post := range items {
		link := fmt.Sprintf("%s/%s/", base, post.PermalinkSlug())
		b.WriteString("    <item>\n")
		b.WriteString(fmt.Sprintf("      <title>%s</title>\n", html.EscapeString(post.Meta.Title)))
		b.WriteString(fmt.Sprintf("      <link>%s</link>\n", link))
		b.WriteString(fmt.Sprintf("      <guid>%s</guid>\n", link))
		if post.Meta.Summary != "" {
			b.WriteString(fmt.Sprintf("      <description>%s</description>\n", html.EscapeString(post.Meta.Summary)))
		}
		if !post.Meta.Date.IsZero() {
			b.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", post.Meta.Date.UTC().Format(time.RFC1123Z)))
		}
		b.WriteString("    </item>\n")
	}

	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}
