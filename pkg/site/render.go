package site

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// newEngine builds the markdown engine. GFM, autolinks, and task lists are
// on; heading IDs are generated so in-page anchors work. The engine is
// stateless and shared across renders.
func newEngine() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		),
	)
}

// renderMarkdown converts a markdown body to HTML. Malformed markdown
// degrades rendering quality but is not fatal: the raw text is emitted
// escaped inside a <pre> block so the post still ships.
func (b *Builder) renderMarkdown(source string) (template.HTML, bool) {
	var buf bytes.Buffer
	if err := b.engine.Convert([]byte(source), &buf); err != nil {
		b.logger.Warn("markdown render failed, emitting raw body", "error", err)
		escaped := template.HTMLEscapeString(source)
		return template.HTML("<pre>" + escaped + "</pre>"), false
	}
	return template.HTML(buf.String()), true
}
