// Package overlay computes the bounding-box highlights drawn over the
// source document and tracks which page and chunk the viewer shows.
package overlay

import (
	"math"

	"github.com/jackzampolin/docview/internal/types"
)

// Rect is a rectangle in percent of the page container, 0 to 100.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PixelRect is a rectangle in container pixels.
type PixelRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Box is one highlight on a page.
type Box struct {
	ChunkID   string          `json:"chunk_id"`
	ChunkType types.ChunkType `json:"chunk_type"`
	Rect      Rect            `json:"rect"`

	// Marginalia marks page headers, footers and numbers.
	Marginalia bool `json:"marginalia,omitempty"`
}

// PercentRect positions a fractional box in percent of its container.
// Every edge is clamped so the rect never leaves [0,100] on either axis.
func PercentRect(b types.Box) Rect {
	left, right := span(b.L, b.R)
	top, bottom := span(b.T, b.B)
	return Rect{
		Left:   left * 100,
		Top:    top * 100,
		Width:  (right - left) * 100,
		Height: (bottom - top) * 100,
	}
}

// ToPixels scales a fractional box to a container of the given size,
// with the same clamping as PercentRect.
func ToPixels(b types.Box, width, height float64) PixelRect {
	r := PercentRect(b)
	return PixelRect{
		X:      r.Left / 100 * width,
		Y:      r.Top / 100 * height,
		Width:  r.Width / 100 * width,
		Height: r.Height / 100 * height,
	}
}

// span clamps a pair of edges to [0,1] and orders them.
func span(lo, hi float64) (float64, float64) {
	lo, hi = clamp01(lo), clamp01(hi)
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// ChunksOnPage returns the chunks with a grounding entry on the given
// 1-based UI page, in response order.
func ChunksOnPage(chunks []types.DocumentChunk, uiPage int) []types.DocumentChunk {
	page := types.GroundingPage(uiPage)
	var out []types.DocumentChunk
	for _, c := range chunks {
		if c.OnPage(page) {
			out = append(out, c)
		}
	}
	return out
}

// BoxesOnPage returns one highlight per grounding entry on the given
// 1-based UI page.
func BoxesOnPage(chunks []types.DocumentChunk, uiPage int) []Box {
	page := types.GroundingPage(uiPage)
	var out []Box
	for _, c := range ChunksOnPage(chunks, uiPage) {
		for _, g := range c.Grounding {
			if g.Page != page {
				continue
			}
			out = append(out, Box{
				ChunkID:    c.ChunkID,
				ChunkType:  c.ChunkType,
				Rect:       PercentRect(g.Box),
				Marginalia: c.ChunkType.IsMarginalia(),
			})
		}
	}
	return out
}
