// Package lint validates the shape of a content set: required front matter
// fields, parseable dates, slug uniqueness, duplicate-free tag and keyword
// lists, and text-encoding anomalies.
package lint

import (
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	slug "github.com/goliatone/go-slug"

	"github.com/goinkwell/inkwell/pkg/core"
)

// Severity classifies an issue. Errors fail builds; warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding against a post, pointing at file and field.
type Issue struct {
	File     string   `json:"file"`
	Field    string   `json:"field,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s: %s: %s", i.Severity, i.File, i.Message)
	}
	return fmt.Sprintf("%s: %s: field %q: %s", i.Severity, i.File, i.Field, i.Message)
}

// Linter checks posts against the content-shape rules.
type Linter struct{}

// New returns a Linter.
func New() *Linter {
	return &Linter{}
}

// Check validates every post individually and the set as a whole.
// Issues come back sorted by file then field for stable output.
func (l *Linter) Check(posts []core.Post) []Issue {
	var issues []Issue

	slugOwners := make(map[string]string, len(posts))
	for _, post := range posts {
		issues = append(issues, l.checkPost(post)...)

		s := strings.TrimSpace(post.Meta.Slug)
		if s == "" {
			continue
		}
		if owner, taken := slugOwners[s]; taken {
			issues = append(issues, Issue{
				File:     file(post),
				Field:    "slug",
				Severity: SeverityError,
				Message:  fmt.Sprintf("slug %q already used by %s", s, owner),
			})
			continue
		}
		slugOwners[s] = file(post)
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].File != issues[j].File {
			return issues[i].File < issues[j].File
		}
		return issues[i].Field < issues[j].Field
	})
	return issues
}

// checkPost validates a single post's front matter and body.
func (l *Linter) checkPost(post core.Post) []Issue {
	var issues []Issue
	meta := post.Meta

	err := validation.ValidateStruct(&meta,
		validation.Field(&meta.Title, validation.Required.Error("title is required")),
		validation.Field(&meta.Slug,
			validation.Required.Error("slug is required"),
			validation.By(validSlug),
		),
		validation.Field(&meta.Date, validation.Required.Error("date is missing or unparsable")),
		validation.Field(&meta.Tags,
			validation.Required.Error("tags must not be empty"),
			validation.By(noDuplicates),
		),
		validation.Field(&meta.Keywords,
			validation.Required.Error("keywords must not be empty"),
			validation.By(noDuplicates),
		),
	)
	if errs, ok := err.(validation.Errors); ok {
		for field, ferr := range errs {
			issues = append(issues, Issue{
				File:     file(post),
				Field:    field,
				Severity: SeverityError,
				Message:  ferr.Error(),
			})
		}
	}

	if strings.TrimSpace(meta.Summary) == "" {
		issues = append(issues, Issue{
			File:     file(post),
			Field:    "summary",
			Severity: SeverityWarning,
			Message:  "summary is empty; listings will have no preview text",
		})
	}
	if strings.TrimSpace(meta.Description) == "" {
		issues = append(issues, Issue{
			File:     file(post),
			Field:    "description",
			Severity: SeverityWarning,
			Message:  "description is empty; pages will have no meta description",
		})
	}

	issues = append(issues, l.checkEncoding(post)...)
	return issues
}

func validSlug(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil // Required handles absence
	}
	if !slug.IsValid(s) {
		return fmt.Errorf("%q is not URL-safe", s)
	}
	return nil
}

func noDuplicates(value any) error {
	items, _ := value.([]string)
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			return fmt.Errorf("contains an empty entry")
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("contains duplicate entry %q", item)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func file(post core.Post) string {
	if strings.HasSuffix(post.ID, ".md") {
		return post.ID
	}
	return post.ID + ".md"
}
