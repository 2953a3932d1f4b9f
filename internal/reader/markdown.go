package reader

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Markdown handles Markdown files using goldmark. The first level-1 heading
// becomes the title; remaining headings flow into the text as paragraphs.
type Markdown struct{}

func (p *Markdown) Read(r io.Reader, filename string) (*Extracted, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	out := &Extracted{Title: baseTitle(filename)}
	titleSet := false
	var paragraphs []string

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := string(node.Text(src))
			if node.Level == 1 && !titleSet {
				out.Title = heading
				titleSet = true
				continue
			}
			if heading != "" {
				paragraphs = append(paragraphs, heading)
			}
		default:
			if t := extractText(n, src); t != "" {
				paragraphs = append(paragraphs, t)
			}
		}
	}

	out.Text = strings.Join(paragraphs, "\n\n")
	return out, nil
}

// extractText gets the text content of a goldmark AST node. Blocks with
// inline children (paragraphs) read from the children; raw lines cover
// leaf blocks such as fenced code that have none.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if !n.HasChildren() && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else if t := extractText(c, src); t != "" {
			if buf.Len() > 0 && c.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}
