package sdf

import (
	"context"
	"errors"
	"testing"

	"github.com/npillmayer/glyphd/core/font"
	"github.com/npillmayer/glyphd/core/glyphs"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlyphBitmapSize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphd.glyphs")
	defer teardown()
	//
	gen := NewGenerator(Options{})
	assert.Equal(t, DefaultOptions(), gen.Options())
	g, err := gen.Glyph(nil, font.FallbackFont(), 'H')
	require.NoError(t, err)
	assert.Equal(t, uint32('H'), g.ID)
	require.True(t, g.Width > 0 && g.Height > 0)
	b := uint32(gen.Options().Buffer)
	assert.Equal(t, int((g.Width+2*b)*(g.Height+2*b)), len(g.Bitmap))
	assert.True(t, g.Advance > 0)
	// the corner of the border is outside the glyph
	assert.True(t, g.Bitmap[0] < 191, "expected outside value at corner")
	// the left stem of an 'H' starts right after the border
	stride := int(g.Width + 2*b)
	row := int(b + g.Height/2)
	assert.True(t, g.Bitmap[row*stride+int(b)+1] > 191, "expected inside value at left stem")
}

func TestWhitespaceGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphd.glyphs")
	defer teardown()
	//
	g, err := NewGenerator(DefaultOptions()).Glyph(nil, font.FallbackFont(), ' ')
	require.NoError(t, err)
	assert.Empty(t, g.Bitmap)
	assert.Equal(t, uint32(0), g.Width)
	assert.True(t, g.Advance > 0)
}

func TestMissingGlyph(t *testing.T) {
	_, err := NewGenerator(DefaultOptions()).Glyph(nil, font.FallbackFont(), 0x01)
	assert.True(t, errors.Is(err, ErrNoGlyph))
}

func TestGlyphSet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphd.glyphs")
	defer teardown()
	//
	f := font.FallbackFont()
	gen := NewGenerator(DefaultOptions())
	r := glyphs.CodePointRange{Start: 0, End: 127}
	gs, err := gen.GlyphSet(context.Background(), "Go", f, r)
	require.NoError(t, err)
	covered, err := f.Coverage(context.Background(), 0, 127)
	require.NoError(t, err)
	assert.Equal(t, len(covered), gs.Len())
	_, ok := gs.Glyph(5)
	assert.False(t, ok)
	// deterministic rendering
	again, err := gen.GlyphSet(context.Background(), "Go", f, r)
	require.NoError(t, err)
	for _, cp := range gs.CodePoints() {
		g1, _ := gs.Glyph(cp)
		g2, _ := again.Glyph(cp)
		assert.Equal(t, g1, g2)
	}
	// nothing beyond the Unicode range
	gs, err = gen.GlyphSet(context.Background(), "Go", f, glyphs.CodePointRange{Start: 0x110000, End: 0x1100FF})
	require.NoError(t, err)
	assert.True(t, gs.IsEmpty())
}

func TestGlyphSetCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGenerator(DefaultOptions()).GlyphSet(ctx, "Go", font.FallbackFont(),
		glyphs.CodePointRange{Start: 32, End: 126})
	assert.ErrorIs(t, err, context.Canceled)
	// a range spanning all of Unicode stops while scanning for covered runes
	_, err = NewGenerator(DefaultOptions()).GlyphSet(ctx, "Go", font.FallbackFont(),
		glyphs.CodePointRange{Start: 0, End: glyphs.MaxCodePoint})
	assert.ErrorIs(t, err, context.Canceled)
}
