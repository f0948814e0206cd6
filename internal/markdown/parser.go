package markdown

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

// ParseWithFrontmatter converts markdown to HTML and returns the YAML front matter.
func (p *Parser) ParseWithFrontmatter(source []byte) (content []byte, meta map[string]any, err error) {
	ctx := parser.NewContext()
	var buf bytes.Buffer

	err = p.md.Convert(source, &buf, parser.WithContext(ctx))
	if err != nil {
		return nil, nil, err
	}

	meta = make(map[string]any)
	data := frontmatter.Get(ctx)
	if data != nil {
		err = data.Decode(&meta)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode front matter: %w", err)
		}
	}

	return buf.Bytes(), meta, nil
}

// Execute fills tmpl with data and renders the result like ParseWithFrontmatter.
func (p *Parser) Execute(tmpl *template.Template, data any) (content []byte, meta map[string]any, err error) {
	var src bytes.Buffer
	err = tmpl.Execute(&src, data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute template %s: %w", tmpl.Name(), err)
	}
	return p.ParseWithFrontmatter(src.Bytes())
}
