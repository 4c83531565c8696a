// Package types provides the extraction data model shared across packages.
// This package has no dependencies on other docview packages to avoid import cycles.
package types

import (
	"errors"
	"fmt"
)

// ChunkType is the kind of content unit the extraction API identified.
type ChunkType string

const (
	ChunkTitle      ChunkType = "title"
	ChunkPageHeader ChunkType = "page_header"
	ChunkPageFooter ChunkType = "page_footer"
	ChunkPageNumber ChunkType = "page_number"
	ChunkKeyValue   ChunkType = "key_value"
	ChunkForm       ChunkType = "form"
	ChunkTable      ChunkType = "table"
	ChunkFigure     ChunkType = "figure"
	ChunkText       ChunkType = "text"
)

// Known reports whether t is one of the documented chunk types.
// Unknown types are kept verbatim since the API may add new kinds.
func (t ChunkType) Known() bool {
	switch t {
	case ChunkTitle, ChunkPageHeader, ChunkPageFooter, ChunkPageNumber,
		ChunkKeyValue, ChunkForm, ChunkTable, ChunkFigure, ChunkText:
		return true
	default:
		return false
	}
}

// IsMarginalia reports whether the chunk type is page furniture
// (headers, footers, page numbers).
func (t ChunkType) IsMarginalia() bool {
	return t == ChunkPageHeader || t == ChunkPageFooter || t == ChunkPageNumber
}

// Box is a bounding box in fractions of the page image, 0 to 1.
type Box struct {
	L float64 `json:"l"`
	T float64 `json:"t"`
	R float64 `json:"r"`
	B float64 `json:"b"`
}

// Grounding locates a chunk on a page. Page is 0-based.
type Grounding struct {
	Box  Box `json:"box"`
	Page int `json:"page"`
}

// DocumentChunk is one extracted content unit.
type DocumentChunk struct {
	Text      string      `json:"text"`
	ChunkType ChunkType   `json:"chunk_type"`
	ChunkID   string      `json:"chunk_id"`
	Grounding []Grounding `json:"grounding"`
}

// FirstPage returns the 0-based page of the chunk's first grounding entry.
func (c DocumentChunk) FirstPage() (int, bool) {
	if len(c.Grounding) == 0 {
		return 0, false
	}
	return c.Grounding[0].Page, true
}

// OnPage reports whether any grounding entry is on the given 0-based page.
func (c DocumentChunk) OnPage(page int) bool {
	for _, g := range c.Grounding {
		if g.Page == page {
			return true
		}
	}
	return false
}

// PageError is a per-page failure reported by the extraction API.
type PageError struct {
	PageNum   int    `json:"page_num"`
	Error     string `json:"error"`
	ErrorCode int    `json:"error_code"`
}

// DocumentResponse is the extraction result for one document.
type DocumentResponse struct {
	Markdown   string          `json:"markdown"`
	Chunks     []DocumentChunk `json:"chunks"`
	Errors     []PageError     `json:"errors,omitempty"`
	DocumentID string          `json:"documentId,omitempty"`
	PageCount  int             `json:"pageCount,omitempty"`
}

// ComputedPageCount returns the number of pages the document spans.
// It is at least the reported page count and at least one more than
// the highest grounding page.
func (d *DocumentResponse) ComputedPageCount() int {
	count := d.PageCount
	for _, c := range d.Chunks {
		for _, g := range c.Grounding {
			if g.Page+1 > count {
				count = g.Page + 1
			}
		}
	}
	if count == 0 && len(d.Chunks) > 0 {
		count = 1
	}
	return count
}

// ChunkByID returns the chunk with the given id.
func (d *DocumentResponse) ChunkByID(id string) (DocumentChunk, bool) {
	for _, c := range d.Chunks {
		if c.ChunkID == id {
			return c, true
		}
	}
	return DocumentChunk{}, false
}

// Validate checks chunk id uniqueness and that grounding pages fall in
// [0, pageCount) when the page count is known. All violations are joined.
func (d *DocumentResponse) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(d.Chunks))
	for _, c := range d.Chunks {
		if c.ChunkID == "" {
			errs = append(errs, errors.New("chunk with empty chunk_id"))
			continue
		}
		if _, ok := seen[c.ChunkID]; ok {
			errs = append(errs, fmt.Errorf("duplicate chunk_id %q", c.ChunkID))
		}
		seen[c.ChunkID] = struct{}{}

		for _, g := range c.Grounding {
			if g.Page < 0 || (d.PageCount > 0 && g.Page >= d.PageCount) {
				errs = append(errs, fmt.Errorf("chunk %q grounded on page %d outside [0, %d)", c.ChunkID, g.Page, d.PageCount))
			}
		}
	}
	return errors.Join(errs...)
}

// UIPage converts a 0-based grounding page to a 1-based UI page.
func UIPage(groundingPage int) int {
	return groundingPage + 1
}

// GroundingPage converts a 1-based UI page to a 0-based grounding page.
func GroundingPage(uiPage int) int {
	return uiPage - 1
}
