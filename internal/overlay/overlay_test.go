package overlay

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/docview/internal/types"
)

func sampleDoc() *types.DocumentResponse {
	return &types.DocumentResponse{
		Chunks: []types.DocumentChunk{
			{ChunkID: "title", ChunkType: types.ChunkTitle, Grounding: []types.Grounding{
				{Page: 0, Box: types.Box{L: 0.1, T: 0.05, R: 0.9, B: 0.1}},
			}},
			{ChunkID: "table", ChunkType: types.ChunkTable, Grounding: []types.Grounding{
				{Page: 2, Box: types.Box{L: 0.2, T: 0.3, R: 0.8, B: 0.6}},
				{Page: 3, Box: types.Box{L: 0.2, T: 0.0, R: 0.8, B: 0.2}},
			}},
			{ChunkID: "note", ChunkType: types.ChunkText},
		},
	}
}

func TestPercentRect(t *testing.T) {
	t.Run("fraction times hundred", func(t *testing.T) {
		r := PercentRect(types.Box{L: 0.25, T: 0.1, R: 0.75, B: 0.5})
		assert.InDelta(t, 25, r.Left, 1e-9)
		assert.InDelta(t, 10, r.Top, 1e-9)
		assert.InDelta(t, 50, r.Width, 1e-9)
		assert.InDelta(t, 40, r.Height, 1e-9)
	})

	t.Run("out of range edges are clamped", func(t *testing.T) {
		r := PercentRect(types.Box{L: -0.2, T: 0.9, R: 1.3, B: 1.5})
		assert.Equal(t, Rect{Left: 0, Top: 90, Width: 100, Height: 10}, roundRect(r))
	})

	t.Run("inverted edges are ordered", func(t *testing.T) {
		r := PercentRect(types.Box{L: 0.6, T: 0.4, R: 0.2, B: 0.1})
		assert.InDelta(t, 20, r.Left, 1e-9)
		assert.InDelta(t, 40, r.Width, 1e-9)
		assert.InDelta(t, 10, r.Top, 1e-9)
		assert.InDelta(t, 30, r.Height, 1e-9)
	})

	t.Run("always within bounds", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 1000; i++ {
			b := types.Box{
				L: rng.Float64()*3 - 1,
				T: rng.Float64()*3 - 1,
				R: rng.Float64()*3 - 1,
				B: rng.Float64()*3 - 1,
			}
			r := PercentRect(b)
			require.GreaterOrEqual(t, r.Left, 0.0)
			require.GreaterOrEqual(t, r.Top, 0.0)
			require.GreaterOrEqual(t, r.Width, 0.0)
			require.GreaterOrEqual(t, r.Height, 0.0)
			require.LessOrEqual(t, r.Left+r.Width, 100.0+1e-9)
			require.LessOrEqual(t, r.Top+r.Height, 100.0+1e-9)
		}
	})
}

func TestToPixels(t *testing.T) {
	p := ToPixels(types.Box{L: 0.1, T: 0.2, R: 0.6, B: 0.7}, 800, 1000)
	assert.InDelta(t, 80, p.X, 1e-9)
	assert.InDelta(t, 200, p.Y, 1e-9)
	assert.InDelta(t, 400, p.Width, 1e-9)
	assert.InDelta(t, 500, p.Height, 1e-9)
}

func TestChunksOnPage(t *testing.T) {
	doc := sampleDoc()

	got := ChunksOnPage(doc.Chunks, 3)
	require.Len(t, got, 1)
	assert.Equal(t, "table", got[0].ChunkID)

	assert.Empty(t, ChunksOnPage(doc.Chunks, 2))
	assert.Len(t, BoxesOnPage(doc.Chunks, 1), 1)
	assert.Len(t, BoxesOnPage(doc.Chunks, 4), 1)
}

func TestViewer(t *testing.T) {
	t.Run("starts on page one", func(t *testing.T) {
		v := NewViewer(sampleDoc())
		assert.Equal(t, State{Page: 1, PageCount: 4}, v.State())
		assert.Len(t, v.Boxes(), 1)
	})

	t.Run("select navigates to first grounding page", func(t *testing.T) {
		v := NewViewer(sampleDoc())
		require.NoError(t, v.Select("table"))
		s := v.State()
		assert.Equal(t, 3, s.Page)
		assert.Equal(t, "table", s.SelectedChunkID)
		assert.Equal(t, "table", s.ScrollTarget)
	})

	t.Run("box click keeps the page", func(t *testing.T) {
		v := NewViewer(sampleDoc())
		v.GoTo(4)
		require.NoError(t, v.SelectFrom(SourceBox, "table"))
		assert.Equal(t, 4, v.State().Page)
		assert.Equal(t, "table", v.State().SelectedChunkID)
	})

	t.Run("ungrounded chunk selects in place", func(t *testing.T) {
		v := NewViewer(sampleDoc())
		v.GoTo(2)
		require.NoError(t, v.Select("note"))
		assert.Equal(t, 2, v.State().Page)
	})

	t.Run("unknown chunk", func(t *testing.T) {
		v := NewViewer(sampleDoc())
		assert.ErrorIs(t, v.Select("missing"), ErrUnknownChunk)
		assert.ErrorIs(t, v.ClickBox("missing"), ErrUnknownChunk)
	})

	t.Run("navigation clamps", func(t *testing.T) {
		v := NewViewer(sampleDoc())
		assert.Equal(t, 1, v.Prev())
		assert.Equal(t, 4, v.GoTo(99))
		assert.Equal(t, 4, v.Next())
		assert.Equal(t, 3, v.Prev())
	})

	t.Run("clear selection", func(t *testing.T) {
		v := NewViewer(sampleDoc())
		require.NoError(t, v.Select("title"))
		v.ClearSelection()
		assert.Empty(t, v.State().SelectedChunkID)
		assert.Empty(t, v.State().ScrollTarget)
	})

	t.Run("empty document has one page", func(t *testing.T) {
		v := NewViewer(&types.DocumentResponse{})
		assert.Equal(t, 1, v.State().PageCount)
		assert.Empty(t, v.Boxes())
	})
}

func roundRect(r Rect) Rect {
	round := func(v float64) float64 { return float64(int(v*1e6+0.5)) / 1e6 }
	return Rect{Left: round(r.Left), Top: round(r.Top), Width: round(r.Width), Height: round(r.Height)}
}

func TestBoxesOnPage_Marginalia(t *testing.T) {
	chunks := []types.DocumentChunk{
		{ChunkID: "hdr", ChunkType: types.ChunkPageHeader, Grounding: []types.Grounding{
			{Page: 0, Box: types.Box{L: 0, T: 0, R: 1, B: 0.05}},
		}},
		{ChunkID: "body", ChunkType: types.ChunkText, Grounding: []types.Grounding{
			{Page: 0, Box: types.Box{L: 0.1, T: 0.1, R: 0.9, B: 0.8}},
		}},
		{ChunkID: "num", ChunkType: types.ChunkPageNumber, Grounding: []types.Grounding{
			{Page: 0, Box: types.Box{L: 0.45, T: 0.95, R: 0.55, B: 1}},
		}},
	}

	boxes := BoxesOnPage(chunks, 1)
	require.Len(t, boxes, 3)
	assert.True(t, boxes[0].Marginalia)
	assert.False(t, boxes[1].Marginalia)
	assert.True(t, boxes[2].Marginalia)
}
