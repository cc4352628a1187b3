package pipeline

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/util"
)

// codeBlockWrapper writes the <pre><code> pair around fenced code blocks.
// Highlighted blocks carry the "chroma" class; unknown languages keep their
// language class and plain escaped content.
func codeBlockWrapper(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	if !entering {
		_, _ = w.WriteString("</code></pre>\n")
		return
	}

	lang, hasLang := ctx.Language()
	var class []byte
	if hasLang && len(lang) > 0 {
		class = append([]byte("language-"), util.EscapeHTML(lang)...)
	}

	switch {
	case ctx.Highlighted():
		_, _ = w.WriteString(`<pre class="chroma`)
		if class != nil {
			_ = w.WriteByte(' ')
			_, _ = w.Write(class)
		}
		_, _ = w.WriteString(`">`)
	default:
		_, _ = w.WriteString("<pre>")
	}

	_, _ = w.WriteString("<code")
	if class != nil {
		_, _ = w.WriteString(` class="`)
		_, _ = w.Write(class)
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')
}

// resolveStyle returns the named chroma style, or chroma's fallback.
func resolveStyle(name string) *chroma.Style {
	if name == "" {
		name = DefaultHighlightStyle
	}
	return styles.Get(name)
}

// WriteHighlightCSS writes the stylesheet for the chroma classes emitted by
// the converter, using the named style.
func WriteHighlightCSS(w io.Writer, styleName string) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(w, resolveStyle(styleName)); err != nil {
		return fmt.Errorf("writing highlight CSS: %w", err)
	}
	return nil
}
