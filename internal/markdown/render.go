package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Mode names the path the renderer took.
type Mode string

const (
	// ModeMarkdown means the text went through the markdown renderer.
	ModeMarkdown Mode = "markdown"
	// ModeRawHTML means leftover HTML tables or math delimiters forced a
	// sanitized raw HTML rendition.
	ModeRawHTML Mode = "raw-html"
)

// Rendered is the output of the render pipeline.
type Rendered struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
	Mode     Mode   `json:"mode"`
}

var (
	leftoverTable = regexp.MustCompile(`(?i)</?table\b`)
	mathClass     = regexp.MustCompile(`^math( math-(inline|display))?$`)
)

// Renderer converts extraction markdown to sanitized HTML.
// It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer builds a renderer with GFM enabled and a UGC sanitizer that
// also keeps the math element classes.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(mathClass).OnElements("span", "div")

	return &Renderer{md: md, policy: policy}
}

var defaultRenderer = NewRenderer()

// Default returns the process-wide renderer.
func Default() *Renderer {
	return defaultRenderer
}

// Render runs the full pipeline with the default renderer.
func Render(s string) (Rendered, error) {
	return defaultRenderer.Render(s)
}

// Render normalizes s, renders math spans and converts the result to HTML.
func (r *Renderer) Render(s string) (Rendered, error) {
	normalized := Normalize(s)
	withMath := RenderMath(normalized)

	if needsRawHTML(withMath) {
		return Rendered{
			Markdown: normalized,
			HTML:     r.policy.Sanitize(withMath),
			Mode:     ModeRawHTML,
		}, nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(withMath), &buf); err != nil {
		return Rendered{}, fmt.Errorf("failed to render markdown: %w", err)
	}

	return Rendered{
		Markdown: normalized,
		HTML:     r.policy.Sanitize(buf.String()),
		Mode:     ModeMarkdown,
	}, nil
}

// Sanitize applies the renderer's HTML policy to s.
func (r *Renderer) Sanitize(s string) string {
	return r.policy.Sanitize(s)
}

// needsRawHTML reports whether table tags or unmatched display math
// delimiters remain after normalization and math rendering.
func needsRawHTML(s string) bool {
	if leftoverTable.MatchString(s) {
		return true
	}
	return strings.Contains(stripCode(s), "$$")
}

// stripCode drops fenced code blocks so literal dollars inside code do not
// count as leftover math.
func stripCode(s string) string {
	if !strings.Contains(s, "```") && !strings.Contains(s, "~~~") {
		return s
	}
	var b strings.Builder
	inFence := false
	for _, line := range strings.SplitAfter(s, "\n") {
		if isFence(line) {
			inFence = !inFence
			continue
		}
		if !inFence {
			b.WriteString(line)
		}
	}
	return b.String()
}
