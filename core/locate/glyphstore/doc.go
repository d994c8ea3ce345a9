/*
Package glyphstore locates and loads glyph ranges of fonts.

A Store is a read-only view of a directory tree of prebuilt glyph tiles:

	<root>/<font name>/<start>-<end>.pbf

Optionally, outline fonts placed directly in the root directory
(<root>/<font name>.ttf or .otf), fonts installed on the system and the
embedded Go font may serve as sources, from which glyph ranges are rendered
on demand.

A Loader produces the glyph set of a single font for a range of code points.
As loading may be a time-consuming task, Loader.Resolve works in an
async/await fashion by returning a promise, which the client will call later
to receive the glyph set. The call to the promise-function will then block
until loading has completed or the client's context is done.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package glyphstore

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'glyphd.store'.
func tracer() tracing.Trace {
	return tracing.Select("glyphd.store")
}
