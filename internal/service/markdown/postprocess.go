package markdown

import (
	"fmt"
	htmlesc "html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// copyIconSVG matches the clipboard glyph rendered inside every copy
// control.
const copyIconSVG = `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" width="16" height="16"><rect x="9" y="9" width="13" height="13" rx="2" ry="2"></rect><path d="M5 15H4a2 2 0 0 1-2-2V4a2 2 0 0 1 2-2h9a2 2 0 0 1 2 2v1"></path></svg>`

// postProcess runs the DOM passes over rendered HTML:
//   - wrap each pre>code in a themed container with a copy control
//     bound to the block's exact literal text
//   - apply requested character emphasis inside code blocks
//   - normalize chroma's highlighted-line class
//   - guarantee every rendered line has non-empty content
//   - wrap tables in a horizontally scrollable container
func postProcess(rendered string, theme string, fences []fenceMeta) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return "", fmt.Errorf("parse rendered html: %w", err)
	}

	blockIndex := 0
	doc.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		code := pre.Find("code")
		if code.Length() == 0 {
			return
		}

		// The copy control receives the literal text only, stripped of
		// markup and of the trailing fence newline.
		codeText := strings.TrimRight(code.Text(), "\n")

		pre.WrapHtml(`<div class="code-block-wrapper"></div>`)
		wrapper := pre.Parent()
		wrapper.SetAttr("data-theme", theme)
		wrapper.PrependHtml(fmt.Sprintf(
			`<button class="copy-button" data-code="%s" aria-label="copy">%s</button>`,
			htmlesc.EscapeString(codeText), copyIconSVG,
		))

		// Emphasis metadata indexes fenced blocks only; indented code
		// also renders as pre>code and must not consume a slot.
		if isFencedBlock(pre, code) {
			if blockIndex < len(fences) {
				for _, tok := range fences[blockIndex].chars {
					for _, n := range code.Nodes {
						wrapToken(n, tok)
					}
				}
			}
			blockIndex++
		}
	})

	doc.Find("span.line.hl").AddClass("line--highlighted")

	doc.Find("span.line").Each(func(_ int, line *goquery.Selection) {
		if strings.TrimSpace(line.Text()) != "" {
			return
		}
		if cl := line.Find("span.cl"); cl.Length() > 0 {
			cl.SetText(" \n")
		} else {
			line.SetText(" ")
		}
	})

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.WrapHtml(`<div class="table-wrapper"></div>`)
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialize html: %w", err)
	}
	return out, nil
}

// isFencedBlock reports whether a rendered pre>code came from a fence
// with an info line: highlighted fences carry chroma's pre class,
// unhighlighted ones keep goldmark's language-* code class. Indented
// code blocks and bare fences have neither.
func isFencedBlock(pre, code *goquery.Selection) bool {
	if pre.HasClass("chroma") {
		return true
	}
	cls, _ := code.Attr("class")
	for _, c := range strings.Fields(cls) {
		if strings.HasPrefix(c, "language-") {
			return true
		}
	}
	return false
}

// wrapToken wraps every occurrence of tok inside the subtree's text
// nodes with <span class="highlighted">, splitting text nodes as needed.
func wrapToken(n *html.Node, tok string) {
	if tok == "" {
		return
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling

		if c.Type != html.TextNode {
			wrapToken(c, tok)
			c = next
			continue
		}

		for {
			idx := strings.Index(c.Data, tok)
			if idx < 0 {
				break
			}

			parent := c.Parent
			if before := c.Data[:idx]; before != "" {
				parent.InsertBefore(&html.Node{Type: html.TextNode, Data: before}, c)
			}

			span := &html.Node{
				Type:     html.ElementNode,
				Data:     "span",
				DataAtom: atom.Span,
				Attr:     []html.Attribute{{Key: "class", Val: "highlighted"}},
			}
			span.AppendChild(&html.Node{Type: html.TextNode, Data: tok})
			parent.InsertBefore(span, c)

			c.Data = c.Data[idx+len(tok):]
		}

		c = next
	}
}
