/*
Package font is for handling the outline fonts glyph ranges may be rendered from.

A "scalable font" is a single font file (TrueType or OpenType, *.ttf or *.otf)
which has been parsed and is ready to hand out glyph outlines at any size.
Collections (*.ttc) are not supported.

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package font

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'glyphd.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphd.fonts")
}

// ScalableFont is a parsed outline font.
//
// The sfnt.Font is safe for concurrent use as long as every goroutine
// passes its own sfnt.Buffer.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
}

// FontFileExtensions lists the file extensions of loadable source fonts.
var FontFileExtensions = []string{".ttf", ".otf"}

// IsFontFile is a predicate: does the file name denote a loadable source font?
func IsFontFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range FontFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadOpenTypeFont reads and parses a font file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont parses font data. The font name is taken from the
// font's name table.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// GlyphIndex returns the glyph index for a rune, or 0 if the font does
// not cover it.
func (sf *ScalableFont) GlyphIndex(buf *sfnt.Buffer, r rune) sfnt.GlyphIndex {
	gid, err := sf.SFNT.GlyphIndex(buf, r)
	if err != nil {
		return 0
	}
	return gid
}

// coverageCheckInterval is the number of runes Coverage probes between
// checks of its context.
const coverageCheckInterval = 4096

// Coverage returns the runes in [from, to] the font has glyphs for.
// Scanning stops with the context's error once ctx is done.
func (sf *ScalableFont) Coverage(ctx context.Context, from, to rune) ([]rune, error) {
	var buf sfnt.Buffer
	var runes []rune
	for r := from; r <= to && r >= from; r++ {
		if (r-from)%coverageCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if sf.GlyphIndex(&buf, r) != 0 {
			runes = append(runes, r)
		}
	}
	return runes, nil
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else fails. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else fails.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: "Go Sans",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	tracer().Debugf("loaded embedded fallback font %s", gofont.Fontname)
	return gofont
}
