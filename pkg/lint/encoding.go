package lint

import (
	"fmt"
	"strings"

	"github.com/goinkwell/inkwell/pkg/core"
)

// mojibake maps the UTF-8-read-as-Windows-1252 renderings of common
// punctuation back to the intended characters. These show up when content
// went through a pipeline with a mismatched encoding (e.g. "it's" became
// "itâ€™s").
var mojibake = map[string]string{
	"â€™": "’", // ’ right single quote
	"â€˜": "‘", // ‘ left single quote
	"â€œ": "“", // “ left double quote
	"â€": "”", // ” right double quote
	"â€“": "–", // – en dash
	"â€”": "—", // — em dash
	"â€¦": "…", // … ellipsis
	"â€¢": "•", // • bullet
	"Â ":       " ", // non-breaking space
}

// HasMojibake reports whether the text contains known mis-encoded sequences.
func HasMojibake(text string) bool {
	for seq := range mojibake {
		if strings.Contains(text, seq) {
			return true
		}
	}
	return false
}

// RepairEncoding rewrites known mis-encoded sequences to the characters the
// author intended. Text without anomalies passes through unchanged.
func RepairEncoding(text string) string {
	if !HasMojibake(text) {
		return text
	}
	pairs := make([]string, 0, len(mojibake)*2)
	for seq, fixed := range mojibake {
		pairs = append(pairs, seq, fixed)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// RepairPost returns a copy of the post with encoding anomalies repaired in
// its textual fields, and whether anything changed.
func RepairPost(post core.Post) (core.Post, bool) {
	changed := false
	fix := func(s string) string {
		repaired := RepairEncoding(s)
		if repaired != s {
			changed = true
		}
		return repaired
	}

	post.Body = fix(post.Body)
	post.Meta.Title = fix(post.Meta.Title)
	post.Meta.Summary = fix(post.Meta.Summary)
	post.Meta.Description = fix(post.Meta.Description)
	return post, changed
}

// checkEncoding flags mis-encoded text as warnings. Source files are left
// verbatim; repair is a separate, explicit operation.
func (l *Linter) checkEncoding(post core.Post) []Issue {
	var issues []Issue

	fields := []struct {
		name string
		text string
	}{
		{"title", post.Meta.Title},
		{"summary", post.Meta.Summary},
		{"description", post.Meta.Description},
		{"body", post.Body},
	}

	for _, f := range fields {
		if HasMojibake(f.text) {
			issues = append(issues, Issue{
				File:     file(post),
				Field:    f.name,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("%s contains mis-encoded characters (e.g. â€™); run lint --fix-encoding to repair", f.name),
			})
		}
	}
	return issues
}
