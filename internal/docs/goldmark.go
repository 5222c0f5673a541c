package docs

import (
	"bytes"
	"context"
	"html/template"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/underrout/callisto-release/internal/release"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="callisto-version" content="{{.Version}}">
<title>{{.Title}}</title>
{{- if .Stylesheet}}
<link rel="stylesheet" href="{{.Stylesheet}}">
{{- end}}
{{- if .Icon}}
<link rel="icon" href="{{.Icon}}">
{{- end}}
</head>
<body>
<header>
<h1 class="title">{{.Title}}</h1>
<p class="version">Callisto {{.Release}}</p>
</header>
<main>
{{.Body}}
</main>
</body>
</html>
`))

type pageData struct {
	Title      string
	Version    string
	Release    string
	Stylesheet string
	Icon       string
	Body       template.HTML
}

// GoldmarkConverter renders pages in-process. Stylesheet and Icon are hrefs relative to the
// output folder.
type GoldmarkConverter struct {
	md         goldmark.Markdown
	Stylesheet string
	Icon       string
}

func NewGoldmarkConverter(stylesheet, icon string) *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	return &GoldmarkConverter{md: md, Stylesheet: stylesheet, Icon: icon}
}

func (g *GoldmarkConverter) Convert(ctx context.Context, page Page, v release.Version) error {
	if err := ctx.Err(); err != nil {
		return conversionError(ctx, err, page)
	}
	source, err := os.ReadFile(page.SourcePath)
	if err != nil {
		return conversionError(ctx, err, page)
	}

	var body bytes.Buffer
	if err := g.md.Convert(source, &body); err != nil {
		return conversionError(ctx, err, page)
	}

	var out bytes.Buffer
	data := pageData{
		Title:      page.Title,
		Version:    v.String(),
		Release:    v.Dotted(),
		Stylesheet: g.Stylesheet,
		Icon:       g.Icon,
		Body:       template.HTML(body.String()), //nolint:gosec // rendered from the release's own docs
	}
	if err := pageTemplate.Execute(&out, data); err != nil {
		return conversionError(ctx, err, page)
	}
	if err := os.WriteFile(page.OutputPath, out.Bytes(), 0o644); err != nil {
		return conversionError(ctx, err, page)
	}
	return nil
}
