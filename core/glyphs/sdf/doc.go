/*
Package sdf renders glyphs of outline fonts into signed distance fields,
ready to be packed into glyph tiles.

Parameters follow the conventions map renderers expect: glyphs are
rasterized at 24 pixels per em with a 3 pixel border around the ink box,
distances are clipped at a radius of 8 pixels, and the glyph edge is
encoded at 75% of the value range (cutoff 0.25):

	value = 255 − 255 · (d/radius + cutoff)

where d is the signed distance in pixels, positive outside the glyph.
*/
package sdf

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glyphd.glyphs'
func tracer() tracing.Trace {
	return tracing.Select("glyphd.glyphs")
}
