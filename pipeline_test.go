package mdcontent

// Notes:
// - Tests run the real goldmark, chroma and x/net/html stages; only the
//   panic test swaps in a mock converter
// - Assertions check fragments of the output rather than whole documents so
//   that whitespace chosen by goldmark does not make tests brittle
// - Concurrency is covered by TestRenderMarkdown_Concurrent; run with -race

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	p, err := NewPipeline(opts...)
	if err != nil {
		t.Fatalf("NewPipeline() unexpected error: %v", err)
	}
	return p
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func assertExcludes(t *testing.T, got string, excludes ...string) {
	t.Helper()
	for _, exclude := range excludes {
		if strings.Contains(got, exclude) {
			t.Errorf("output should not contain %q:\n%s", exclude, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type panicConverter struct{}

func (panicConverter) ToHTML(context.Context, string) (string, error) {
	panic("boom")
}

// ---------------------------------------------------------------------------
// TestRenderMarkdown - Pipeline Stages
// ---------------------------------------------------------------------------

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		content      string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:    "heading slug and external link",
			content: "# Hello World\n\nSee [site](https://example.com).",
			wantContains: []string{
				`id="hello-world"`,
				`href="https://example.com" target="_blank" rel="nofollow noopener noreferrer"`,
			},
		},
		{
			name:         "duplicate headings get suffixes",
			content:      "# Title\n\n# Title\n\n## Title",
			wantContains: []string{`id="title"`, `id="title-1"`, `id="title-2"`},
		},
		{
			name:    "heading anchor",
			content: "## Getting Started",
			wantContains: []string{
				`<h2 id="getting-started"><a aria-hidden="true" tabindex="-1" class="autolink" href="#getting-started"><span class="icon icon-link"></span></a>Getting Started</h2>`,
			},
		},
		{
			name:         "internal links untouched",
			content:      "[about](/about) [top](#top) [mail](mailto:a@b.co) [rel](../x)",
			wantContains: []string{`href="/about"`, `href="#top"`, `href="mailto:a@b.co"`},
			wantExcludes: []string{"_blank", "noopener"},
		},
		{
			name:         "protocol-relative link is external",
			content:      "[cdn](//cdn.example.org/x.js)",
			wantContains: []string{`target="_blank"`},
		},
		{
			name:         "known language highlighted",
			content:      "```go\npackage main\n```",
			wantContains: []string{`<pre class="chroma language-go"><code class="language-go">`, `class="kn"`},
		},
		{
			name:         "unknown language falls back",
			content:      "```nosuchlang\nlet x = 1 < 2\n```",
			wantContains: []string{`<pre><code class="language-nosuchlang">let x = 1 &lt; 2`},
			wantExcludes: []string{"chroma"},
		},
		{
			name:         "inline code not highlighted",
			content:      "Use `go test` here",
			wantContains: []string{"<code>go test</code>"},
			wantExcludes: []string{"chroma"},
		},
		{
			name:         "gfm table alignment kept",
			content:      "| a | b |\n|:-:|--:|\n| 1 | 2 |",
			wantContains: []string{`style="text-align:center"`, `style="text-align:right"`},
		},
		{
			name:         "frontmatter discarded",
			content:      "---\ntitle: Hidden\n---\n# Shown",
			wantContains: []string{`id="shown"`},
			wantExcludes: []string{"Hidden", "title:"},
		},
		{
			name:         "undecodable frontmatter still discarded",
			content:      "---\ntitle: [unclosed\n---\n# Shown",
			wantContains: []string{`id="shown"`},
			wantExcludes: []string{"unclosed"},
		},
		{
			name:         "crlf and bom normalized",
			content:      "\uFEFF# One\r\n\r\n# Two\r\n",
			wantContains: []string{`id="one"`, `id="two"`},
		},
	}

	p := newTestPipeline(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := p.RenderMarkdown(context.Background(), tt.content)
			if err != nil {
				t.Fatalf("RenderMarkdown() unexpected error: %v", err)
			}
			assertContains(t, got, tt.wantContains...)
			assertExcludes(t, got, tt.wantExcludes...)
		})
	}
}

func TestRenderMarkdown_Sanitized(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"<script>alert(1)</script>",
		"",
		`<img src="x" onerror="alert(1)">`,
		"",
		"[click](javascript:alert(1))",
		"",
		"![pic](javascript:alert(1))",
		"",
		`<a href="#" onclick="steal()">inline</a>`,
		"",
		"<iframe src=\"https://evil.example\"></iframe>",
	}, "\n")

	got, err := newTestPipeline(t).RenderMarkdown(context.Background(), content)
	if err != nil {
		t.Fatalf("RenderMarkdown() unexpected error: %v", err)
	}
	assertExcludes(t, got, "<script", "onerror", "onclick", "javascript:", "<iframe", "<!--")
}

func TestRenderMarkdown_Idempotent(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	content := "# A\n\n# A\n\n[x](https://example.com)\n\n```go\nfunc f() {}\n```\n"

	first, err := p.RenderMarkdown(context.Background(), content)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := p.RenderMarkdown(context.Background(), content)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if first != second {
		t.Errorf("renders differ:\n%s\n---\n%s", first, second)
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	t.Parallel()

	got, err := newTestPipeline(t).RenderMarkdown(context.Background(), "")
	if err != nil {
		t.Fatalf("RenderMarkdown(\"\") unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("RenderMarkdown(\"\") = %q, want empty", got)
	}
}

func TestRenderMarkdown_RecoversPanic(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	p.markdown = panicConverter{}

	_, err := p.RenderMarkdown(context.Background(), "# x")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("error = %v, want ErrParse", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q should mention the panic value", err)
	}
}

func TestRenderMarkdown_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(t).RenderMarkdown(ctx, "# x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrParse) {
		t.Error("cancellation should not be reported as a parse error")
	}
}

func TestRenderMarkdown_Concurrent(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	content := "# Intro\n\n# Intro\n\n[x](https://example.com)\n\n```go\nx := 1\n```\n"
	want, err := p.RenderMarkdown(context.Background(), content)
	if err != nil {
		t.Fatalf("RenderMarkdown() unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.RenderMarkdown(context.Background(), content)
			if err != nil {
				t.Errorf("concurrent render: %v", err)
				return
			}
			if got != want {
				t.Errorf("concurrent render differs:\n%s", got)
			}
		}()
	}
	wg.Wait()
}

// ---------------------------------------------------------------------------
// TestOptions - Pipeline Configuration
// ---------------------------------------------------------------------------

func TestWithSiteOrigin(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, WithSiteOrigin("https://Example.com"))
	got, err := p.RenderMarkdown(context.Background(),
		"[own](https://example.com/post) [other](https://other.org) [downgrade](http://example.com/x)")
	if err != nil {
		t.Fatalf("RenderMarkdown() unexpected error: %v", err)
	}

	assertContains(t, got,
		`<a href="https://example.com/post">own</a>`,
		`<a href="https://other.org" target="_blank"`,
		`<a href="http://example.com/x" target="_blank"`,
	)
}

func TestWithSiteOrigin_Invalid(t *testing.T) {
	t.Parallel()

	for _, origin := range []string{"example.com", "ftp://example.com", "https://", "://x"} {
		_, err := NewPipeline(WithSiteOrigin(origin))
		if !errors.Is(err, ErrInvalidSiteOrigin) {
			t.Errorf("NewPipeline(WithSiteOrigin(%q)) error = %v, want ErrInvalidSiteOrigin", origin, err)
		}
	}
}

func TestWithAutolinkClass(t *testing.T) {
	t.Parallel()

	t.Run("custom class", func(t *testing.T) {
		t.Parallel()

		got, err := newTestPipeline(t, WithAutolinkClass("anchor")).RenderMarkdown(context.Background(), "# A")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertContains(t, got, `class="anchor" href="#a"`)
	})

	t.Run("empty disables anchors", func(t *testing.T) {
		t.Parallel()

		got, err := newTestPipeline(t, WithAutolinkClass("")).RenderMarkdown(context.Background(), "# A")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertContains(t, got, `<h1 id="a">A</h1>`)
		assertExcludes(t, got, "aria-hidden")
	})
}

func TestWithExternalLinkRel(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, WithExternalLinkRel("noopener", "external"))
	got, err := p.RenderMarkdown(context.Background(), "[x](https://example.com)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, got, `rel="noopener external"`)
	assertExcludes(t, got, "nofollow")
}

func TestWithReadingSpeed(t *testing.T) {
	t.Parallel()

	html := "<p>" + strings.Repeat("word ", 500) + "</p>"

	if got := newTestPipeline(t, WithReadingSpeed(100)).EstimateReadingTime(html); got != 5 {
		t.Errorf("EstimateReadingTime at 100 wpm = %d, want 5", got)
	}
	if got := newTestPipeline(t).EstimateReadingTime(html); got != 2 {
		t.Errorf("EstimateReadingTime at default speed = %d, want 2", got)
	}
}

func TestWithReadingSpeed_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithReadingSpeed(0) should panic")
		}
	}()
	WithReadingSpeed(0)
}

func TestWithHighlightStyle(t *testing.T) {
	t.Parallel()

	var css strings.Builder
	if err := newTestPipeline(t, WithHighlightStyle("monokai")).WriteHighlightCSS(&css); err != nil {
		t.Fatalf("WriteHighlightCSS() unexpected error: %v", err)
	}
	assertContains(t, css.String(), ".chroma")
}

func TestDefaultExternalLinkRel_ReturnsCopy(t *testing.T) {
	t.Parallel()

	rel := DefaultExternalLinkRel()
	rel[0] = "changed"
	if DefaultExternalLinkRel()[0] != "nofollow" {
		t.Error("DefaultExternalLinkRel should return a fresh slice")
	}
}

// ---------------------------------------------------------------------------
// TestEstimateReadingTime - Package Function
// ---------------------------------------------------------------------------

func TestEstimateReadingTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want int
	}{
		{"empty", "", 1},
		{"whitespace only", "  \n\t ", 1},
		{"ten words", "<p>" + strings.Repeat("word ", 10) + "</p>", 1},
		{"five hundred words", "<p>" + strings.Repeat("word ", 500) + "</p>", 2},
		{"rounds half up", "<p>" + strings.Repeat("word ", 625) + "</p>", 3},
		{"rounds down", "<p>" + strings.Repeat("word ", 600) + "</p>", 2},
		{"markup not counted", `<p><a href="https://example.com/a/very/long/url">one</a> two</p>`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := EstimateReadingTime(tt.html); got != tt.want {
				t.Errorf("EstimateReadingTime() = %d, want %d", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRenderMDX - Compile Path
// ---------------------------------------------------------------------------

func TestRenderMDX(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	src := "# Hi {user.name}\n\n<Callout kind=\"tip\">\n\nRead [docs](https://example.com).\n\n</Callout>\n"
	scope := Scope{"user": map[string]any{"name": "Ada"}}

	d, err := p.RenderMDX(context.Background(), src, scope)
	if err != nil {
		t.Fatalf("RenderMDX() unexpected error: %v", err)
	}

	static := d.StaticHTML()
	assertContains(t, static, `id="hi-ada"`, `class="autolink"`, `<a href="https://example.com">docs</a>`)
	assertExcludes(t, static, "_blank", "noopener")
	if len(d.Components) != 1 || d.Components[0] != "Callout" {
		t.Errorf("Components = %v, want [Callout]", d.Components)
	}
}

func TestRenderMDX_Frontmatter(t *testing.T) {
	t.Parallel()

	d, err := newTestPipeline(t).RenderMDX(context.Background(), "---\ntitle: Post\n---\n# {frontmatter.title}\n", nil)
	if err != nil {
		t.Fatalf("RenderMDX() unexpected error: %v", err)
	}
	assertContains(t, d.StaticHTML(), `id="post"`)
	if d.Frontmatter["title"] != "Post" {
		t.Errorf("Frontmatter = %#v", d.Frontmatter)
	}
}

func TestRenderMDX_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		wantErr  error
		wantKind error
	}{
		{"unresolved reference", "Hello {missing}", ErrCompile, ErrUnresolvedReference},
		{"invalid expression", "{items.map(x => x)}", ErrCompile, ErrInvalidExpression},
		{"malformed component", "<Note>", ErrCompile, ErrInvalidComponent},
		{"import statement", "import A from 'a'", ErrCompile, ErrESM},
		{"bad frontmatter", "---\ntitle: [unclosed\n---\nx", ErrParse, ErrParse},
	}

	p := newTestPipeline(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := p.RenderMDX(context.Background(), tt.source, Scope{"items": []any{}})
			if !errors.Is(err, tt.wantErr) || !errors.Is(err, tt.wantKind) {
				t.Fatalf("RenderMDX(%q) error = %v, want %v and %v", tt.source, err, tt.wantErr, tt.wantKind)
			}
			if d != nil {
				t.Error("no partial descriptor on failure")
			}
		})
	}
}

func TestRenderMDX_SyntaxErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := newTestPipeline(t).RenderMDX(context.Background(), "Intro\n\nSee {nope}", nil)
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error %v should carry a *SyntaxError", err)
	}
	if se.Line != 3 || se.Column != 5 {
		t.Errorf("position = %d:%d, want 3:5", se.Line, se.Column)
	}
}

func TestRenderMDX_PrivateUseGlyph(t *testing.T) {
	t.Parallel()

	d, err := newTestPipeline(t).RenderMDX(context.Background(), "Icon \uE000 next to <Badge />\n", nil)
	if err != nil {
		t.Fatalf("RenderMDX() unexpected error: %v", err)
	}
	if len(d.Components) != 1 || d.Components[0] != "Badge" {
		t.Errorf("Components = %v, want [Badge]", d.Components)
	}
	if got := d.StaticHTML(); !strings.Contains(got, "Icon \uE000 next to") {
		t.Errorf("StaticHTML = %q, want the U+E000 glyph kept", got)
	}
}

// ---------------------------------------------------------------------------
// TestRender - Document Dispatch
// ---------------------------------------------------------------------------

func TestRender_Markdown(t *testing.T) {
	t.Parallel()

	doc := Document{
		Source:  "posts/hello.md",
		Content: "---\ntitle: Hello\ntags: [go, web]\n---\n# Heading\n\n## Sub\n\nSome text.\n",
	}
	res, err := newTestPipeline(t).Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	if res.Dialect != DialectMarkdown || res.Descriptor != nil {
		t.Errorf("Dialect = %q, Descriptor = %v", res.Dialect, res.Descriptor)
	}
	if res.Title() != "Hello" {
		t.Errorf("Title() = %q, want %q", res.Title(), "Hello")
	}
	if res.ReadingTime != 1 {
		t.Errorf("ReadingTime = %d, want 1", res.ReadingTime)
	}
	want := []Heading{{Level: 1, ID: "heading", Text: "Heading"}, {Level: 2, ID: "sub", Text: "Sub"}}
	if len(res.Headings) != len(want) {
		t.Fatalf("Headings = %+v, want %+v", res.Headings, want)
	}
	for i := range want {
		if res.Headings[i] != want[i] {
			t.Errorf("Headings[%d] = %+v, want %+v", i, res.Headings[i], want[i])
		}
	}
	assertExcludes(t, res.HTML, "title:")
}

func TestRender_MDX(t *testing.T) {
	t.Parallel()

	doc := Document{Source: "a.mdx", Content: "# A {x}\n\n<Chart />\n", Scope: Scope{"x": "b"}}
	res, err := newTestPipeline(t).Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if res.Dialect != DialectMDX || res.Descriptor == nil {
		t.Fatalf("Dialect = %q, Descriptor = %v", res.Dialect, res.Descriptor)
	}
	assertContains(t, res.HTML, "A b")
	if res.Title() != "A b" {
		t.Errorf("Title() = %q, want first heading text", res.Title())
	}
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     Document
		wantErr error
		wantMsg string
	}{
		{"unknown extension", Document{Source: "notes.txt", Content: "x"}, ErrUnknownDialect, "rendering notes.txt: "},
		{"unknown dialect", Document{Source: "x", Dialect: "rst"}, ErrUnknownDialect, "rendering x: "},
		{"compile failure", Document{Source: "p.mdx", Content: "{nope}"}, ErrCompile, "rendering p.mdx: "},
		{"unnamed source", Document{Dialect: DialectMDX, Content: "{nope}"}, ErrCompile, "rendering <input>: "},
	}

	p := newTestPipeline(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := p.Render(context.Background(), tt.doc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Render() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.HasPrefix(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should start with %q", err, tt.wantMsg)
			}
		})
	}
}
