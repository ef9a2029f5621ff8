package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts Markdown text to HTML
type Renderer interface {
	Render(text string) (string, error)
}

type goldmarkRenderer struct {
	md goldmark.Markdown
}

// New returns a Renderer backed by goldmark. Raw HTML in the input is
// omitted from the output.
func New() Renderer {
	return &goldmarkRenderer{
		md: goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify)),
	}
}

func (r *goldmarkRenderer) Render(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
