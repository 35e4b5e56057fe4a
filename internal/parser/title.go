package parser

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

type titleMeta struct {
	Title string `yaml:"title"`
}

// Title returns the display title of a note: the front matter title when
// present, otherwise the text of the first level-one heading, otherwise "".
// Malformed front matter is treated as body text.
func Title(content string) string {
	src := []byte(content)

	var meta titleMeta
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err == nil {
		if t := strings.TrimSpace(meta.Title); t != "" {
			return t
		}
		src = body
	}
	return firstHeading(src)
}

func firstHeading(src []byte) string {
	doc := markdown.Parser().Parse(text.NewReader(src))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(string(h.Text(src)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}
