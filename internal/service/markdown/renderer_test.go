package markdown

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	return doc
}

func TestRenderCopyButtonCarriesLiteralText(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("```js\nconsole.log(\"hi\")\n```", "github-light")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	doc := mustDoc(t, out)
	btn := doc.Find(".code-block-wrapper .copy-button")
	if btn.Length() != 1 {
		t.Fatalf("copy buttons = %d, want 1", btn.Length())
	}

	code, _ := btn.Attr("data-code")
	if code != `console.log("hi")` {
		t.Errorf("data-code = %q, want the exact literal text", code)
	}
}

func TestRenderStampsTheme(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("```go\nx := 1\n```", "dracula")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	doc := mustDoc(t, out)
	theme, _ := doc.Find(".code-block-wrapper").Attr("data-theme")
	if theme != "dracula" {
		t.Errorf("data-theme = %q, want dracula", theme)
	}
}

func TestRenderWrapsTables(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("| a | b |\n|---|---|\n| 1 | 2 |", "github-light")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	doc := mustDoc(t, out)
	if doc.Find(".table-wrapper > table").Length() != 1 {
		t.Error("table not wrapped in scroll container")
	}
}

func TestRenderCharEmphasis(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("```go /Fprintln/\nfmt.Fprintln(w, \"ok\")\n```", "github-light")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	doc := mustDoc(t, out)
	marks := doc.Find("code span.highlighted")
	if marks.Length() == 0 {
		t.Fatal("no emphasized spans in code block")
	}
	found := false
	marks.Each(func(_ int, s *goquery.Selection) {
		if s.Text() == "Fprintln" {
			found = true
		}
	})
	if !found {
		t.Error("emphasized span does not carry the requested token")
	}
}

func TestRenderEmphasisSkipsIndentedBlocks(t *testing.T) {
	r := NewRenderer()
	body := "    indented code alpha\n\n```go /alpha/\nalpha := 1\n```"
	out, err := r.Render(body, "github-light")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	doc := mustDoc(t, out)
	blocks := doc.Find("pre")
	if blocks.Length() != 2 {
		t.Fatalf("blocks = %d, want 2", blocks.Length())
	}
	if blocks.First().Find("span.highlighted").Length() != 0 {
		t.Error("indented block received emphasis")
	}

	marks := doc.Find("pre.chroma span.highlighted")
	if marks.Length() == 0 {
		t.Fatal("fenced block lost its emphasis")
	}
	found := false
	marks.Each(func(_ int, s *goquery.Selection) {
		if s.Text() == "alpha" {
			found = true
		}
	})
	if !found {
		t.Error("emphasized span does not carry the requested token")
	}
}

func TestRenderSanitizesScripts(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("hello <script>alert(1)</script> world", "github-light")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "<script") {
		t.Error("script element survived sanitization")
	}
}

func TestRenderKeepsTaskLists(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("- [x] done\n- [ ] open", "github-light")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	doc := mustDoc(t, out)
	if doc.Find("input[type=checkbox]").Length() != 2 {
		t.Error("task list checkboxes dropped")
	}
}

func TestScanFences(t *testing.T) {
	tests := []struct {
		name string
		body string
		want [][]string
	}{
		{
			name: "no fences",
			body: "plain text",
			want: nil,
		},
		{
			name: "single fence no tokens",
			body: "```go\nx\n```",
			want: [][]string{nil},
		},
		{
			name: "tokens on info line",
			body: "```go /foo/ /bar/\nx\n```",
			want: [][]string{{"foo", "bar"}},
		},
		{
			name: "second block indexed separately",
			body: "```go\nx\n```\ntext\n```js /y/\ny\n```",
			want: [][]string{nil, {"y"}},
		},
		{
			name: "tilde fences",
			body: "~~~python /def/\ndef f():\n~~~",
			want: [][]string{{"def"}},
		},
		{
			name: "bare fence takes no slot",
			body: "```\nx\n```\n```js /y/\ny\n```",
			want: [][]string{{"y"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metas := scanFences(tt.body)
			if len(metas) != len(tt.want) {
				t.Fatalf("blocks = %d, want %d", len(metas), len(tt.want))
			}
			for i, want := range tt.want {
				if len(metas[i].chars) != len(want) {
					t.Fatalf("block %d chars = %v, want %v", i, metas[i].chars, want)
				}
				for j, tok := range want {
					if metas[i].chars[j] != tok {
						t.Errorf("block %d chars = %v, want %v", i, metas[i].chars, want)
					}
				}
			}
		})
	}
}
