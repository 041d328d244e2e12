package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goinkwell/inkwell/pkg/core"
)

// frontMatterEnvelope mirrors core.FrontMatter with the struct tags each
// front matter dialect needs. Unknown keys are collected separately via a
// second, untyped decode pass.
type frontMatterEnvelope struct {
	Title       string    `toml:"title" yaml:"title" json:"title"`
	Slug        string    `toml:"slug" yaml:"slug" json:"slug"`
	Date        time.Time `toml:"date" yaml:"date" json:"date"`
	Draft       bool      `toml:"draft" yaml:"draft" json:"draft"`
	Tags        []string  `toml:"tags" yaml:"tags" json:"tags"`
	Keywords    []string  `toml:"keywords" yaml:"keywords" json:"keywords"`
	Summary     string    `toml:"summary" yaml:"summary" json:"summary"`
	Description string    `toml:"description" yaml:"description" json:"description"`
	Author      string    `toml:"author" yaml:"author" json:"author"`
}

// typedKeys are the front matter keys owned by the envelope. Everything else
// survives in Post.Extra.
var typedKeys = map[string]struct{}{
	"title": {}, "slug": {}, "date": {}, "draft": {}, "tags": {},
	"keywords": {}, "summary": {}, "description": {}, "author": {},
}

// DecodePost reads a markdown document with an optional front matter block.
// The block's dialect (TOML +++, YAML ---, JSON object) is detected from its
// delimiter and recorded on the post so EncodePost can write it back in the
// same style. A document without front matter parses as all body.
func DecodePost(r io.Reader) (*core.Post, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	post := &core.Post{Extra: make(core.Metadata)}

	format, ok := detectFormat(data)
	if !ok {
		post.Body = string(data)
		return post, nil
	}
	if err := checkClosed(data, format); err != nil {
		return nil, err
	}
	post.Format = format

	var env frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(data), &env)
	if err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}

	raw := map[string]any{}
	if _, err := frontmatter.Parse(bytes.NewReader(data), &raw); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	for key, value := range raw {
		if _, typed := typedKeys[key]; typed {
			continue
		}
		// Decoders differ on key casing: TOML and JSON match struct fields
		// case-insensitively, YAML does not. A cased variant of a typed key
		// only belongs to the envelope when the envelope holds its value;
		// otherwise it is a custom key and must survive in Extra.
		if lower := strings.ToLower(key); lower != key {
			if _, typed := typedKeys[lower]; typed && envelopeCaptured(env, lower) {
				continue
			}
		}
		post.Extra[key] = sanitizeValue(value)
	}

	post.Meta = core.FrontMatter{
		Title:       env.Title,
		Slug:        env.Slug,
		Date:        env.Date,
		Draft:       env.Draft,
		Tags:        append([]string(nil), env.Tags...),
		Keywords:    append([]string(nil), env.Keywords...),
		Summary:     env.Summary,
		Description: env.Description,
		Author:      env.Author,
	}
	post.Body = strings.TrimPrefix(string(body), "\n")
	post.Body = strings.TrimPrefix(post.Body, "\r\n")

	return post, nil
}

// EncodePost serializes a post back to its on-disk form, honoring the
// format it was read with. Posts without one default to TOML.
func EncodePost(p core.Post) ([]byte, error) {
	fields := mergedFields(p)

	format := p.Format
	if format == "" {
		format = core.FormatTOML
	}

	var buf bytes.Buffer
	switch format {
	case core.FormatTOML:
		buf.WriteString("+++\n")
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(fields); err != nil {
			return nil, fmt.Errorf("encode toml front matter: %w", err)
		}
		buf.WriteString("+++\n")
	case core.FormatYAML:
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(fields); err != nil {
			return nil, fmt.Errorf("encode yaml front matter: %w", err)
		}
		enc.Close()
		buf.WriteString("---\n")
	case core.FormatJSON:
		data, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json front matter: %w", err)
		}
		buf.Write(data)
		buf.WriteString("\n")
	default:
		return nil, fmt.Errorf("unsupported front matter format: %q", format)
	}

	if p.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(p.Body)
	}
	return buf.Bytes(), nil
}

// mergedFields flattens the typed front matter over the custom keys.
// Empty typed fields are omitted; draft is always written because its
// absence and false are not the same thing to a reviewer.
func mergedFields(p core.Post) map[string]any {
	fields := make(map[string]any, len(p.Extra)+9)
	for key, value := range p.Extra {
		fields[key] = value
	}

	meta := p.Meta
	if meta.Title != "" {
		fields["title"] = meta.Title
	}
	if meta.Slug != "" {
		fields["slug"] = meta.Slug
	}
	if !meta.Date.IsZero() {
		fields["date"] = meta.Date
	}
	fields["draft"] = meta.Draft
	if len(meta.Tags) > 0 {
		fields["tags"] = append([]string(nil), meta.Tags...)
	}
	if len(meta.Keywords) > 0 {
		fields["keywords"] = append([]string(nil), meta.Keywords...)
	}
	if meta.Summary != "" {
		fields["summary"] = meta.Summary
	}
	if meta.Description != "" {
		fields["description"] = meta.Description
	}
	if meta.Author != "" {
		fields["author"] = meta.Author
	}
	return fields
}

// envelopeCaptured reports whether the typed decode holds a value for the
// given canonical key.
func envelopeCaptured(env frontMatterEnvelope, key string) bool {
	switch key {
	case "title":
		return env.Title != ""
	case "slug":
		return env.Slug != ""
	case "date":
		return !env.Date.IsZero()
	case "draft":
		return env.Draft
	case "tags":
		return len(env.Tags) > 0
	case "keywords":
		return len(env.Keywords) > 0
	case "summary":
		return env.Summary != ""
	case "description":
		return env.Description != ""
	case "author":
		return env.Author != ""
	}
	return false
}

// sanitizeValue normalizes decoded front matter values so they survive JSON
// re-encoding: YAML decoders produce map[interface{}]interface{} for nested
// maps, which encoding/json refuses.
func sanitizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[key] = sanitizeValue(inner)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[fmt.Sprint(key)] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = sanitizeValue(v[i])
		}
		return out
	default:
		return v
	}
}

func detectFormat(data []byte) (string, bool) {
	switch {
	case bytes.HasPrefix(data, []byte("+++\n")) || bytes.HasPrefix(data, []byte("+++\r\n")):
		return core.FormatTOML, true
	case bytes.HasPrefix(data, []byte("---\n")) || bytes.HasPrefix(data, []byte("---\r\n")):
		return core.FormatYAML, true
	case bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("{")):
		return core.FormatJSON, true
	}
	return "", false
}

// checkClosed rejects a front matter block whose closing delimiter is
// missing, before the decoder tries to swallow the body as metadata.
func checkClosed(data []byte, format string) error {
	var delim []byte
	switch format {
	case core.FormatTOML:
		delim = []byte("+++")
	case core.FormatYAML:
		delim = []byte("---")
	default:
		return nil
	}

	rest := data[len(delim):]
	if !bytes.Contains(rest, delim) {
		return errors.New("front matter started but no closing delimiter found")
	}
	return nil
}
