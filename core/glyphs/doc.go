/*
Package glyphs holds the data model of glyph ranges and combines the glyph
sets of several fonts into one fallback chain.

A GlyphSet carries the glyphs one font provides for a range of code points.
Combine merges an ordered sequence of sets: the first set that defines a code
point is authoritative for it, later sets only fill gaps.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package glyphs

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glyphd.glyphs'
func tracer() tracing.Trace {
	return tracing.Select("glyphd.glyphs")
}
