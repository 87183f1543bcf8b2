package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var errUnclosedFrontmatter = errors.New("missing closing frontmatter delimiter")

// Document is the normalized form of any content source: a title, the
// remaining body text, and whatever scalar/array metadata the source
// carried.
type Document struct {
	Title string
	Meta  map[string]any
	Body  string
}

// Normalize unifies the two title-extraction paths behind one
// interface. A leading YAML frontmatter block wins when present;
// otherwise a first-line "#" heading is lifted out as the title and
// removed from the body; otherwise the fallback name (sans .md) is used.
func Normalize(raw []byte, fallbackName string) (*Document, error) {
	doc := &Document{
		Title: strings.TrimSuffix(fallbackName, ".md"),
		Body:  string(raw),
	}

	if hasFrontmatter(raw) {
		meta, body, err := splitFrontmatter(raw)
		switch {
		case err == nil:
			doc.Meta = meta
			doc.Body = body
			if title, ok := meta["title"].(string); ok && title != "" {
				doc.Title = title
				return doc, nil
			}
			// Frontmatter without a title falls through to the heading heuristic.
		case errors.Is(err, errUnclosedFrontmatter):
			// A leading --- with no closing delimiter is a thematic
			// break, not frontmatter; the whole input stays body.
		default:
			return nil, err
		}
	}

	lines := strings.Split(doc.Body, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "#") {
		title := strings.TrimSpace(strings.TrimLeft(lines[0], "#"))
		if title != "" {
			doc.Title = title
			doc.Body = strings.TrimSpace(strings.Join(lines[1:], "\n"))
		}
	}

	return doc, nil
}

func hasFrontmatter(content []byte) bool {
	return bytes.HasPrefix(content, []byte("---\n")) ||
		bytes.HasPrefix(content, []byte("---\r\n"))
}

// splitFrontmatter parses the YAML block between the opening and
// closing "---" delimiters and returns it with the remaining body.
func splitFrontmatter(content []byte) (map[string]any, string, error) {
	lines := bytes.Split(content, []byte("\n"))

	closing := 0
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			closing = i
			break
		}
	}
	if closing == 0 {
		return nil, "", errUnclosedFrontmatter
	}

	var meta map[string]any
	yamlContent := bytes.Join(lines[1:closing], []byte("\n"))
	if err := yaml.Unmarshal(yamlContent, &meta); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}

	body := string(bytes.Join(lines[closing+1:], []byte("\n")))
	return meta, strings.TrimSpace(body), nil
}
