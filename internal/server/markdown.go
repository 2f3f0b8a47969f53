package server

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// RenderMarkdown converts the settings notice to HTML. goldmark drops raw HTML by default.
func RenderMarkdown(md string) string {
	if md == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return ""
	}
	return buf.String()
}
