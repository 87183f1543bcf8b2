package markdown

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
)

// Converter normalizes HTML content sources into markdown so the rest
// of the pipeline only ever sees one input format. Two stages: strip
// dangerous markup, then convert the survivor to markdown.
type Converter struct {
	policy    *bluemonday.Policy
	converter *md.Converter
}

func NewConverter() *Converter {
	return &Converter{
		policy:    bluemonday.UGCPolicy(),
		converter: md.NewConverter("", true, nil),
	}
}

// FromHTML sanitizes and converts an HTML document to markdown.
func (c *Converter) FromHTML(input []byte) (string, error) {
	sanitized := c.policy.Sanitize(string(input))

	markdown, err := c.converter.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return markdown, nil
}

// IsHTMLSource reports whether a filename names an HTML document.
func IsHTMLSource(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}
