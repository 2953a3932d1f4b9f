package reader

import (
	"bufio"
	"io"
	"strings"
)

// Text handles plain text files. Paragraphs separated by blank lines are
// preserved as double-newline breaks.
type Text struct{}

func (p *Text) Read(r io.Reader, filename string) (*Extracted, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Extracted{
		Title: baseTitle(filename),
		Text:  strings.Join(paragraphs, "\n\n"),
	}, nil
}
