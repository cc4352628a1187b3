package mdx

// Notes:
// - scan is checked on the Markdown it hands to goldmark; rendering is
//   covered in compile_test.go
// - Marker runes are built with marker() rather than spelled out; it uses the
//   first start rune, which scan picks when the source has no private use text

import (
	"errors"
	"strings"
	"testing"
)

func marker(id int, kind rune) string {
	s := &scanner{mark: firstMarkerStart}
	return s.marker(id, kind)
}

// ---------------------------------------------------------------------------
// TestScan - Expression Substitution and Pass-through
// ---------------------------------------------------------------------------

func TestScan(t *testing.T) {
	t.Parallel()

	scope := Scope{
		"name":  "Ada",
		"email": "a@b.co",
		"n":     3,
		"flag":  true,
		"title": `say "hi"`,
		"none":  nil,
	}

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"text expression", "Hello {name}", "Hello Ada"},
		{"punctuation becomes references", "Mail {email}", "Mail a&#64;b&#46;co"},
		{"number", "{n} items", "3 items"},
		{"bool", "{flag}", "true"},
		{"nil renders nothing", "[{none}]", "[]"},
		{"string literal", `{"x"}`, "x"},
		{"comment dropped", "a{/* note */}b", "ab"},
		{"empty braces dropped", "a{}b", "ab"},
		{"escaped brace kept", `\{name}`, `\{name}`},
		{"inline code kept", "Use `{name}` here", "Use `{name}` here"},
		{"double backtick code kept", "``{a `b` c}``", "``{a `b` c}``"},
		{"fenced code kept", "```js\nconst x = {name};\n```\n", "```js\nconst x = {name};\n```\n"},
		{"tilde fence kept", "~~~\n{name}\n~~~\nafter {name}", "~~~\n{name}\n~~~\nafter Ada"},
		{"unclosed fence runs to end", "```\n{name}\n", "```\n{name}\n"},
		{"fragments dropped", "<>hi</>", "hi"},
		{"html comment kept", "<!-- {name} -->", "<!-- {name} -->"},
		{"less than kept", "a < b", "a < b"},
		{"url autolink kept", "<https://example.com>", "<https://example.com>"},
		{"html tag kept verbatim", `<span class="x">{name}</span>`, `<span class="x">Ada</span>`},
		{"html attribute expression", `<abbr title={title}>T</abbr>`, `<abbr title="say &#34;hi&#34;">T</abbr>`},
		{"html bare attribute with expression", `<input disabled value={n} />`, `<input disabled value="3" />`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := scan(tt.source, scope)
			if err != nil {
				t.Fatalf("scan(%q) unexpected error: %v", tt.source, err)
			}
			if got.markdown != tt.want {
				t.Errorf("scan(%q) = %q, want %q", tt.source, got.markdown, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestScan_Components - Markers, Props and Block Detection
// ---------------------------------------------------------------------------

func TestScan_Components(t *testing.T) {
	t.Parallel()

	t.Run("inline self-closing", func(t *testing.T) {
		t.Parallel()

		got, err := scan("Hi <Badge /> there", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "Hi " + marker(0, markerVoid) + " there"
		if got.markdown != want {
			t.Errorf("markdown = %q, want %q", got.markdown, want)
		}
		if got.components[0].block {
			t.Error("component sharing a line with text should be inline")
		}
	})

	t.Run("block open and close", func(t *testing.T) {
		t.Parallel()

		got, err := scan("<Note>\nBody\n</Note>", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		open := "\n\n" + marker(0, markerOpen) + "\n\n"
		closing := "\n\n" + marker(0, markerClose) + "\n\n"
		want := open + "\nBody\n" + closing
		if got.markdown != want {
			t.Errorf("markdown = %q, want %q", got.markdown, want)
		}
		if !got.components[0].block {
			t.Error("component alone on its line should be block-level")
		}
	})

	t.Run("several tags on one line are block-level", func(t *testing.T) {
		t.Parallel()

		got, err := scan("<Tabs><Tab>\n\nx\n\n</Tab></Tabs>", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.components) != 2 {
			t.Fatalf("components = %d, want 2", len(got.components))
		}
		for _, c := range got.components {
			if !c.block {
				t.Errorf("%s should be block-level", c.name)
			}
		}
	})

	t.Run("props", func(t *testing.T) {
		t.Parallel()

		scope := Scope{
			"stats": []any{1, 2},
			"extra": map[string]any{"id": "x", "size": 2},
		}
		src := `<Chart title="Q&amp;A" data={stats} legend size={10} {...extra} />`
		got, err := scan(src, scope)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		props := got.components[0].props
		if props["title"] != "Q&A" {
			t.Errorf("title = %#v, want %q", props["title"], "Q&A")
		}
		if data, ok := props["data"].([]any); !ok || len(data) != 2 {
			t.Errorf("data = %#v, want the scope slice", props["data"])
		}
		if props["legend"] != true {
			t.Errorf("legend = %#v, want true", props["legend"])
		}
		if props["size"] != 2 {
			t.Errorf("size = %#v, want spread to override with 2", props["size"])
		}
		if props["id"] != "x" {
			t.Errorf("id = %#v, want %q", props["id"], "x")
		}
	})

	t.Run("multi-line tag", func(t *testing.T) {
		t.Parallel()

		got, err := scan("<Card\n  title=\"A\"\n  wide\n/>", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.components[0].props["title"] != "A" || got.components[0].props["wide"] != true {
			t.Errorf("props = %#v", got.components[0].props)
		}
	})

	t.Run("dotted component name", func(t *testing.T) {
		t.Parallel()

		got, err := scan("<UI.Button>Go</UI.Button>", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.components[0].name != "UI.Button" {
			t.Errorf("name = %q, want %q", got.components[0].name, "UI.Button")
		}
	})
}

// ---------------------------------------------------------------------------
// TestScan_Errors - Positions and Sentinels
// ---------------------------------------------------------------------------

func TestScan_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		source     string
		wantErr    error
		wantLine   int
		wantColumn int
	}{
		{"unresolved reference", "{missing}", ErrUnresolvedReference, 1, 1},
		{"unresolved on later line", "Intro\n\nHi {user.name}", ErrUnresolvedReference, 3, 4},
		{"operator", "{a + b}", ErrInvalidExpression, 1, 1},
		{"unterminated expression", "text {name", ErrInvalidExpression, 1, 6},
		{"object in text position", "{obj}", ErrInvalidExpression, 1, 1},
		{"import", "import Chart from './chart'\n", ErrESM, 1, 1},
		{"export after blank line", "Text\n\nexport const a = 1", ErrESM, 3, 1},
		{"unclosed component", "<Note>\n\ntext", ErrInvalidComponent, 1, 1},
		{"mismatched closing tag", "<A>x</B>", ErrInvalidComponent, 1, 5},
		{"stray closing tag", "x </A>", ErrInvalidComponent, 1, 3},
		{"attributes on closing tag", "<A>x</A b>", ErrInvalidComponent, 1, 5},
		{"unquoted attribute", "<A title=x />", ErrInvalidComponent, 1, 1},
		{"bare expression attribute", "<A {x} />", ErrInvalidComponent, 1, 1},
		{"unterminated tag", "<A title=\"x\"", ErrInvalidComponent, 1, 1},
		{"unresolved prop", "<A value={nope} />", ErrUnresolvedReference, 1, 4},
		{"spread of non-object", "<A {...name} />", ErrInvalidExpression, 1, 4},
		{"spread on html tag", "<div {...obj}></div>", ErrInvalidExpression, 1, 6},
	}

	scope := Scope{"name": "Ada", "user": map[string]any{}, "obj": map[string]any{"k": 1}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := scan(tt.source, scope)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("scan(%q) error = %v, want %v", tt.source, err, tt.wantErr)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("scan(%q) error %T is not a *SyntaxError", tt.source, err)
			}
			if se.Line != tt.wantLine || se.Column != tt.wantColumn {
				t.Errorf("position = %d:%d, want %d:%d", se.Line, se.Column, tt.wantLine, tt.wantColumn)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestScan_MarkerRune - Private Use Text in Documents
// ---------------------------------------------------------------------------

func TestScan_MarkerRune(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		scope  Scope
	}{
		{"start rune in prose", "Icon \uE000 <Badge />", nil},
		{"start rune in code span", "`\uE000` <Badge />", nil},
		{"start rune in fenced code", "```\n\uE000\n```\n\n<Badge />", nil},
		{"kind runes in prose", "\uE000\U000F0000\uE003 <Badge />", nil},
		{"start rune from expression", "{glyph} <Badge />", Scope{"glyph": "\uE000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := scan(tt.source, tt.scope)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.mark == firstMarkerStart {
				t.Errorf("mark = %U, want a rune absent from the document", got.mark)
			}
			if n := strings.Count(got.markdown, string(got.mark)); n != 1 {
				t.Errorf("mark appears %d times in %q, want 1", n, got.markdown)
			}
			if !strings.ContainsRune(got.markdown, '\uE000') {
				t.Errorf("markdown = %q, lost the author's U+E000", got.markdown)
			}
		})
	}
}

func TestScan_ESMNeedsParagraphStart(t *testing.T) {
	t.Parallel()

	got, err := scan("Some text\nimport is a word here\n\nimportant note", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got.markdown, "important note") {
		t.Errorf("markdown = %q", got.markdown)
	}
}

func TestSyntaxError_Error(t *testing.T) {
	t.Parallel()

	err := &SyntaxError{Line: 2, Column: 5, Err: ErrUnresolvedReference, Detail: "user.name"}
	want := "2:5: unresolved scope reference: user.name"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
