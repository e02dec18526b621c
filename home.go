package findash

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed web/home.md
var homeMarkdown []byte

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<nav>{{range .Nav}}<a href="{{.Href}}">{{.Label}}</a> {{end}}</nav>
<main>
{{.Body}}
</main>
<footer>go-findash {{.Version}}</footer>
</body>
</html>
`))

type navLink struct {
	Label string
	Href  string
}

type page struct {
	Title   string
	Nav     []navLink
	Body    template.HTML
	Version string
}

var (
	homeOnce sync.Once
	homeHTML template.HTML
	homeErr  error
)

// RenderMarkdown converts GitHub-flavored markdown to HTML
func RenderMarkdown(src []byte) (template.HTML, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// WriteHomePage writes the landing page. The markdown is rendered once.
func WriteHomePage(w io.Writer) error {
	homeOnce.Do(func() {
		homeHTML, homeErr = RenderMarkdown(homeMarkdown)
	})
	if homeErr != nil {
		return homeErr
	}
	return pageTemplate.Execute(w, page{
		Title: "Financial Dashboard",
		Nav: []navLink{
			{Label: "Home", Href: "/"},
			{Label: "News", Href: "/api/news"},
			{Label: "Reports", Href: "/api/views/reports"},
			{Label: "IPO Calendar", Href: "/api/views/ipo"},
		},
		Body:    homeHTML,
		Version: VERSION,
	})
}
