package markdown

import "strings"

const (
	displayOpen = `<div class="math math-display">`
	inlineOpen  = `<span class="math math-inline">`
)

// texEscaper turns TeX source into text that neither HTML nor markdown
// will reinterpret.
var texEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
	"*", "&#42;",
	"_", "&#95;",
	`\`, "&#92;",
	"`", "&#96;",
	"[", "&#91;",
	"]", "&#93;",
	"|", "&#124;",
	"$", "&#36;",
	"\n", " ",
)

// RenderMath replaces $$...$$ and $...$ spans with HTML elements holding the
// escaped TeX source, for typesetting on the client. Fenced code blocks and
// inline code are copied verbatim. An escaped \$ is never a delimiter, and an
// inline span must open before a non-space and close after a non-space that
// is not followed by a digit, so "$5 and $10" stays text.
func RenderMath(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}

	var b strings.Builder
	var text strings.Builder
	inFence := false
	for _, line := range strings.SplitAfter(s, "\n") {
		if isFence(line) {
			if !inFence {
				b.WriteString(renderMathSpans(text.String()))
				text.Reset()
			}
			inFence = !inFence
			b.WriteString(line)
			continue
		}
		if inFence {
			b.WriteString(line)
			continue
		}
		text.WriteString(line)
	}
	b.WriteString(renderMathSpans(text.String()))
	return b.String()
}

// HasMath reports whether s contains markup RenderMath would convert.
func HasMath(s string) bool {
	return RenderMath(s) != s
}

func renderMathSpans(text string) string {
	if !strings.Contains(text, "$") {
		return text
	}

	var b strings.Builder
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text) && text[i+1] == '$':
			b.WriteString(`\$`)
			i += 2
		case c == '`':
			end := strings.IndexByte(text[i+1:], '`')
			if end < 0 {
				b.WriteByte(c)
				i++
				continue
			}
			b.WriteString(text[i : i+end+2])
			i += end + 2
		case strings.HasPrefix(text[i:], "$$"):
			end := strings.Index(text[i+2:], "$$")
			tex := ""
			if end >= 0 {
				tex = strings.TrimSpace(text[i+2 : i+2+end])
			}
			if tex == "" {
				b.WriteString("$$")
				i += 2
				continue
			}
			b.WriteString(displayOpen + texEscaper.Replace(tex) + "</div>")
			i += end + 4
		case c == '$':
			end, ok := inlineMathEnd(text, i)
			if !ok {
				b.WriteByte(c)
				i++
				continue
			}
			b.WriteString(inlineOpen + texEscaper.Replace(text[i+1:end]) + "</span>")
			i = end + 1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// inlineMathEnd finds the closing $ for an inline span opened at start.
func inlineMathEnd(text string, start int) (int, bool) {
	if start+1 >= len(text) || isSpace(text[start+1]) {
		return 0, false
	}
	for j := start + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '\n':
			if j+1 < len(text) && text[j+1] == '\n' {
				return 0, false
			}
		case '$':
			if isSpace(text[j-1]) {
				continue
			}
			if j+1 < len(text) && text[j+1] >= '0' && text[j+1] <= '9' {
				continue
			}
			return j, true
		}
	}
	return 0, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}
