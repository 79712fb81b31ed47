package chat

import (
	"bytes"

	"github.com/yuin/goldmark"
)

var markdown = goldmark.New()

// RenderHTML converts an assistant Markdown reply to HTML for the detail
// panel. On conversion failure the raw Markdown is returned; the panel
// can always show plain text.
func RenderHTML(md string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return md
	}
	return buf.String()
}
