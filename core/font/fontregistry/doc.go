/*
Package fontregistry manages a registry for loaded source fonts.

Parsing an outline font is costly, and a glyph server renders many ranges
from the same few fonts. The registry keeps every parsed font for the
lifetime of the process, keyed by its exact font name.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glyphd.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphd.fonts")
}
