package glyphstore

import (
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/glyphd/core/font"
)

// systemFonts locates fonts installed on the system. Results, including
// misses, are memoized for the lifetime of the process.
type systemFonts struct {
	enabled bool
	found   sync.Map // font name → path ("" for a miss)
}

func newSystemFonts(enabled bool) *systemFonts {
	return &systemFonts{enabled: enabled}
}

// find searches the platform's font directories for a file named after
// the font, trying every loadable font file extension.
func (sf *systemFonts) find(fontname string) (string, bool) {
	if sf == nil || !sf.enabled || fontname == "" {
		return "", false
	}
	if p, ok := sf.found.Load(fontname); ok {
		return p.(string), p.(string) != ""
	}
	var path string
	for _, ext := range font.FontFileExtensions {
		p, err := findfont.Find(fontname + ext)
		if err == nil && p != "" {
			tracer().Debugf("%s is a system font at %s", fontname, p)
			path = p
			break
		}
	}
	sf.found.Store(fontname, path)
	return path, path != ""
}
