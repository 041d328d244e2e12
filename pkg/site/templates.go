package site

import (
	"html/template"
	"strings"
)

// Page shells. Kept deliberately plain: structure and metadata over chrome.

const postTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- if .Description}}
<meta name="description" content="{{.Description}}">
{{- end}}
{{- if .Keywords}}
<meta name="keywords" content="{{join .Keywords ", "}}">
{{- end}}
{{- if .Author}}
<meta name="author" content="{{.Author}}">
{{- end}}
</head>
<body>
<article>
<header>
<h1>{{.Title}}</h1>
{{- if not .Date.IsZero}}
<time datetime="{{.Date.Format "2006-01-02"}}">{{.Date.Format "January 2, 2006"}}</time>
{{- end}}
{{- if .Tags}}
<nav class="tags">
{{- range .Tags}}
<a href="{{$.Root}}tags/{{.Slug}}/">{{.Name}}</a>
{{- end}}
</nav>
{{- end}}
</header>
{{.Content}}
</article>
</body>
</html>
`

const listTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<ul class="posts">
{{- range .Items}}
<li>
<a href="{{$.Root}}{{.Slug}}/">{{.Title}}</a>
{{- if not .Date.IsZero}}
<time datetime="{{.Date.Format "2006-01-02"}}">{{.Date.Format "2006-01-02"}}</time>
{{- end}}
{{- if .Summary}}
<p>{{.Summary}}</p>
{{- end}}
</li>
{{- end}}
</ul>
</body>
</html>
`

func parseTemplates() (post, list *template.Template, err error) {
	funcs := template.FuncMap{
		"join": strings.Join,
	}
	post, err = template.New("post").Funcs(funcs).Parse(postTemplate)
	if err != nil {
		return nil, nil, err
	}
	list, err = template.New("list").Funcs(funcs).Parse(listTemplate)
	if err != nil {
		return nil, nil, err
	}
	return post, list, nil
}
