// Package markdown turns raw note text into a styled document: split
// frontmatter from body, render GFM with syntax highlighting, inject
// copy controls on code blocks, wrap tables, and pad empty highlight
// lines so backgrounds keep their height.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer is safe for concurrent use; goldmark instances and
// bluemonday policies are immutable after construction.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &Renderer{
		md:     md,
		policy: renderPolicy(),
	}
}

// Render converts a normalized body to HTML with the session's current
// theme stamped on each code block container as a data attribute, so a
// later theme switch only has to rewrite the attribute.
func (r *Renderer) Render(body string, theme string) (string, error) {
	fences := scanFences(body)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	sanitized := r.policy.Sanitize(buf.String())

	return postProcess(sanitized, theme, fences)
}

// renderPolicy sanitizes inline HTML from remote documents while
// keeping the structure the highlighting pass depends on.
func renderPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("span", "div", "input")
	policy.AllowAttrs("class").OnElements(
		"span", "div", "code", "pre", "table", "th", "td", "ul", "ol", "li", "a", "img",
	)
	// GFM task list checkboxes.
	policy.AllowAttrs("type", "checked", "disabled").OnElements("input")
	policy.AllowDataURIImages()
	return policy
}

// fenceMeta carries per-code-block emphasis requests taken from the
// fence info line: /token/ segments mark characters to highlight,
// in document order of the fenced blocks.
type fenceMeta struct {
	chars []string
}

var (
	fenceOpenRe = regexp.MustCompile("^(```+|~~~+)(.*)$")
	charTokenRe = regexp.MustCompile(`/([^/]+)/`)
)

// scanFences walks the raw body and records the emphasis metadata of
// every fenced code block that carries an info line, matched later to
// rendered blocks by index. Fences with a bare opening line are skipped:
// they render as plain pre>code, indistinguishable from indented code,
// and never carry emphasis requests.
func scanFences(body string) []fenceMeta {
	var metas []fenceMeta
	inFence := false
	var marker string

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		m := fenceOpenRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		if inFence {
			if strings.HasPrefix(m[1], marker[:1]) {
				inFence = false
			}
			continue
		}

		inFence = true
		marker = m[1]

		info := strings.TrimSpace(m[2])
		if info == "" {
			continue
		}

		var meta fenceMeta
		for _, tok := range charTokenRe.FindAllStringSubmatch(info, -1) {
			meta.chars = append(meta.chars, tok[1])
		}
		metas = append(metas, meta)
	}

	return metas
}
