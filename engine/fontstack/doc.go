/*
Package fontstack composes the glyph tile for a fontstack request.

A fontstack is a comma-separated list of font names in fallback order. For
every font of the list, plus a trailing fallback font, the glyph set for the
requested range is loaded. The sets are then combined so that a font listed
earlier is authoritative for every code point it defines, with later fonts
only filling gaps.

Loads are started concurrently, but results are always combined in list
order.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package fontstack

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'glyphd.fontstack'.
func tracer() tracing.Trace {
	return tracing.Select("glyphd.fontstack")
}
