package httpd

import (
	"os"
	"testing"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
)

// Fonts and glyph sets are loaded from several goroutines at once, which the
// testing tracer does not support. Tests of this package trace to no-op
// tracers, installed once before any test starts.
func TestMain(m *testing.M) {
	adapter := tracing.GetAdapterFromConfiguration(testconfig.Conf{"tracing.adapter": "nop"}, "")
	tracing.SetTraceSelector(tracing.SelectorForAdapter(adapter))
	os.Exit(m.Run())
}
