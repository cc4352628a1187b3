package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// TestCommonMarkPreprocessor - Input normalization
// ---------------------------------------------------------------------------

func TestCommonMarkPreprocessor_PreprocessMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unchanged", input: "# Title\n\nbody\n", want: "# Title\n\nbody\n"},
		{name: "CRLF", input: "a\r\nb\r\n", want: "a\nb\n"},
		{name: "lone CR", input: "a\rb", want: "a\nb"},
		{name: "mixed endings", input: "a\r\nb\rc\n", want: "a\nb\nc\n"},
		{name: "byte order mark", input: "\uFEFF# Title", want: "# Title"},
		{name: "inner BOM kept", input: "a\uFEFFb", want: "a\uFEFFb"},
		{name: "empty", input: "", want: ""},
	}

	p := &CommonMarkPreprocessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := p.PreprocessMarkdown(context.Background(), tt.input); got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCommonMarkPreprocessor_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &CommonMarkPreprocessor{}
	input := "a\r\nb"
	if got := p.PreprocessMarkdown(ctx, input); got != input {
		t.Errorf("PreprocessMarkdown() on canceled context = %q, want input unchanged", got)
	}
}

// ---------------------------------------------------------------------------
// TestExtractFrontmatter - Leading YAML block detection and decoding
// ---------------------------------------------------------------------------

func TestExtractFrontmatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantMeta map[string]any
		wantBody string
		wantErr  error
	}{
		{
			name:     "block and body",
			input:    "---\ntitle: Hi\ntags: [a, b]\n---\n# Body\n",
			wantMeta: map[string]any{"title": "Hi", "tags": []any{"a", "b"}},
			wantBody: "# Body\n",
		},
		{
			name:     "empty block",
			input:    "---\n---\nbody",
			wantMeta: map[string]any{},
			wantBody: "body",
		},
		{
			name:     "whitespace block",
			input:    "---\n  \n---\nbody",
			wantMeta: map[string]any{},
			wantBody: "body",
		},
		{
			name:     "closing delimiter at end of input",
			input:    "---\ntitle: x\n---",
			wantMeta: map[string]any{"title": "x"},
			wantBody: "",
		},
		{
			name:     "trailing spaces on delimiters",
			input:    "--- \ntitle: x\n---\t\nbody",
			wantMeta: map[string]any{"title": "x"},
			wantBody: "body",
		},
		{
			name:     "blank lines before block",
			input:    "\n\n---\ntitle: x\n---\nbody",
			wantMeta: map[string]any{"title": "x"},
			wantBody: "body",
		},
		{
			name:     "no closing delimiter",
			input:    "---\ntitle: Hi\n# Body",
			wantBody: "---\ntitle: Hi\n# Body",
		},
		{
			name:     "not at start",
			input:    "intro\n---\na: b\n---\n",
			wantBody: "intro\n---\na: b\n---\n",
		},
		{
			name:     "thematic break only",
			input:    "---",
			wantBody: "---",
		},
		{
			name:     "longer dash run is not a delimiter",
			input:    "----\na: b\n----\n",
			wantBody: "----\na: b\n----\n",
		},
		{
			name:  "empty input",
			input: "",
		},
		{name: "invalid YAML", input: "---\ntitle: [oops\n---\n", wantErr: ErrFrontmatter},
		{name: "list instead of mapping", input: "---\n- a\n- b\n---\n", wantErr: ErrFrontmatter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			meta, body, err := ExtractFrontmatter(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ExtractFrontmatter(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractFrontmatter(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(meta, tt.wantMeta) {
				t.Errorf("ExtractFrontmatter(%q) meta = %#v, want %#v", tt.input, meta, tt.wantMeta)
			}
			if body != tt.wantBody {
				t.Errorf("ExtractFrontmatter(%q) body = %q, want %q", tt.input, body, tt.wantBody)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStripFrontmatter - Removal without decoding
// ---------------------------------------------------------------------------

func TestStripFrontmatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid block", "---\ntitle: x\n---\n# Body\n", "# Body\n"},
		{"undecodable block is still removed", "---\ntitle: [oops\n---\n# Body\n", "# Body\n"},
		{"no block", "# Body\n", "# Body\n"},
		{"unclosed block", "---\ntitle: x\n", "---\ntitle: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := StripFrontmatter(tt.input); got != tt.want {
				t.Errorf("StripFrontmatter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
