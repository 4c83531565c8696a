// Package markdown normalizes the markdown returned by the extraction API
// and renders it to sanitized HTML.
//
// The pipeline is:
//
//	StripComments -> ConvertTables -> CollapseWhitespace   (Normalize)
//	Normalize -> RenderMath -> goldmark -> bluemonday        (Render)
//
// When HTML tables or math delimiters survive normalization the renderer
// skips goldmark and sanitizes the normalized text as raw HTML instead.
package markdown
