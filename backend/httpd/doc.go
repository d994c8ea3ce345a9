/*
Package httpd serves glyph tiles over HTTP.

Routes:

	GET /fonts/{fontstack}/{start}-{end}.pbf   combined glyph tile for a fontstack
	GET /fonts.json[?prefix=p]                 names of the fonts in the store
	GET /                                      welcome message

A fontstack is a comma-separated list of font names. Every response carries
permissive CORS headers.

The server is set up from an immutable Config, usually derived from the
application configuration by ConfigFrom.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package httpd

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'glyphd.http'.
func tracer() tracing.Trace {
	return tracing.Select("glyphd.http")
}
